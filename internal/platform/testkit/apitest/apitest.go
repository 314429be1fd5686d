// Package apitest mounts routes on a test router and decodes response envelopes
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "lectern/internal/platform/net/http"
)

// Reply is a decoded response envelope with the data left raw
type Reply struct {
	StatusCode int             `json:"status_code"`
	Code       int             `json:"code"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
	Header     http.Header     `json:"-"`
}

// Router returns a chi mux behind the platform Router seam with mount applied
func Router(mount func(phttp.Router)) http.Handler {
	mux := chi.NewRouter()
	mount(phttp.AdaptChi(mux))
	return mux
}

// Do serves one request against h and decodes the envelope
func Do(t *testing.T, h http.Handler, method, target string, hdr ...string) Reply {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out Reply
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode envelope: %v body=%s", err, rec.Body.String())
		}
	}
	out.StatusCode = rec.Code
	out.Header = rec.Header()
	return out
}

// Decode unmarshals raw into T or fails the test
func Decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", string(raw), err)
	}
	return v
}
