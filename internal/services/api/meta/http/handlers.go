// Package http serves the meta endpoints: liveness, readiness, build info and language tables
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"lectern/internal/adapters/scripture"
	"lectern/internal/core/langs"
	"lectern/internal/core/version"
	"lectern/internal/modkit/httpkit"
)

// probeTimeout bounds every readiness probe together
const probeTimeout = 2 * time.Second

// Probe checks one dependency; a nil Check reports the probe as skipped
type Probe struct {
	Name  string
	Check func(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Probes      []Probe
	// Now defaults to time.Now
	Now func() time.Time
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck is one probe outcome: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse is served with 503 when any probe failed
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse reports uptime in whole seconds
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// LanguagesResponse lists what lectern can serve
type LanguagesResponse struct {
	UI                  []string          `json:"ui"`
	Text                []string          `json:"text"`
	RTL                 []string          `json:"rtl"`
	Base                string            `json:"base"`
	DefaultDocument     string            `json:"defaultDocument"`
	DefaultTranslations map[string]string `json:"defaultTranslations"`
}

type meta struct {
	Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	m := meta{d}
	httpkit.Get(r, "/health", m.health)
	httpkit.Get(r, "/ready", m.ready)
	httpkit.Get(r, "/version", m.version)
	httpkit.Get(r, "/service", m.service)
	httpkit.Get(r, "/languages", m.languages)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func (m meta) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: m.ServiceName, Started: stamp(m.StartedAt), Now: stamp(m.Now())}, nil
}

func (m meta) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(m.Probes))}
	for _, p := range m.Probes {
		c := ReadyCheck{Name: p.Name, Status: "skipped"}
		if p.Check != nil {
			c.Status = "ok"
			if err := p.Check(ctx); err != nil {
				c.Status, c.Error = "fail", err.Error()
				out.Status = "fail"
			}
		}
		out.Checks = append(out.Checks, c)
	}
	out.Now = stamp(m.Now())

	if out.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func (m meta) version(*http.Request) (any, error) {
	return version.Info(m.ServiceName), nil
}

func (m meta) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    m.ServiceName,
		Started: stamp(m.StartedAt),
		Uptime:  int64(m.Now().Sub(m.StartedAt) / time.Second),
	}, nil
}

func (m meta) languages(*http.Request) (any, error) {
	rtl := []string{}
	for _, code := range langs.Text {
		if langs.RTL(code) {
			rtl = append(rtl, code)
		}
	}
	return LanguagesResponse{
		UI:                  langs.UI,
		Text:                langs.Text,
		RTL:                 rtl,
		Base:                langs.Base,
		DefaultDocument:     langs.DefaultDocument,
		DefaultTranslations: scripture.DefaultTranslations,
	}, nil
}
