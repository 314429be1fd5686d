package net

import (
	"net/http"

	perr "lectern/internal/platform/errors"
)

// Wire is the envelope every HTTP body is written in
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Reply builds a success envelope for status
func Reply(status int, data any, reqID string) Wire {
	return Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// Fail maps err to its status and an error envelope; a nil err is a plain 200
func Fail(err error, reqID string) (int, Wire) {
	if err == nil {
		return http.StatusOK, Reply(http.StatusOK, nil, reqID)
	}
	code, msg := perr.Describe(err)
	status := code.Status()
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       code,
		Error:      msg,
		RequestID:  reqID,
	}
}
