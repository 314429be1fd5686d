// Package errors is the coded error shared by adapters, the cache layer and the transports
// import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error; values travel in the wire envelope so only append
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	// ErrorCodeUnavailable covers transport failures, backend shutdowns and lock contention
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	// ErrorCodeInvalidArgument is a well formed request naming something impossible (month 13, bad date)
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is a query that failed struct validation
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	// ErrorCodeDB is a cache backend failure
	ErrorCodeDB
	ErrorCodeConfig
	// ErrorCodeUpstream is a non-success answer from a content service
	ErrorCodeUpstream
	// ErrorCodeParse is an upstream payload of the wrong shape
	ErrorCodeParse
)

var codes = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
	ErrorCodeConfig:          {"config", http.StatusInternalServerError},
	ErrorCodeUpstream:        {"upstream", http.StatusBadGateway},
	ErrorCodeParse:           {"parse", http.StatusBadGateway},
}

// String is the stable snake_case name
func (c ErrorCode) String() string {
	if int(c) < len(codes) {
		return codes[c].name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// Status is the HTTP status the API answers with
func (c ErrorCode) Status() int {
	if int(c) < len(codes) {
		return codes[c].status
	}
	return http.StatusInternalServerError
}

// Error carries a code, a developer message and optionally the query field at fault
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error   { return e.cause }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) Message() string { return e.msg }

// New returns a coded error
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap codes cause under msg
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

// Wrapf is Wrap with formatting
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

// WithField returns a copy of err tagged with field; foreign errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf classifies any error; upstream failures without a coded wrapper are Upstream
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	if _, ok := AsUpstream(err); ok {
		return ErrorCodeUpstream
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err classifies as code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a response status
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// Describe returns the code and the client facing message for err
// coded errors hide their cause, upstream errors show the service answer
func Describe(err error) (ErrorCode, string) {
	if err == nil {
		return ErrorCodeUnknown, ""
	}
	if u, ok := AsUpstream(err); ok {
		if e, ok := As(err); !ok || e.code == ErrorCodeUpstream {
			return ErrorCodeUpstream, u.Error()
		}
	}
	if e, ok := As(err); ok {
		return e.code, e.msg
	}
	return ErrorCodeUnknown, err.Error()
}

func NotFoundf(format string, a ...any) error   { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }
func Configf(format string, a ...any) error     { return Newf(ErrorCodeConfig, format, a...) }
func Parsef(format string, a ...any) error      { return Newf(ErrorCodeParse, format, a...) }
func PanicErrf(format string, a ...any) error   { return Newf(ErrorCodePanic, format, a...) }
