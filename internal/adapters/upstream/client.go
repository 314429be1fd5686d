// Package upstream is the JSON over HTTP client shared by the content adapters
//
// A call is one GET: no retries, no caching. Failures map onto the platform taxonomy:
// transport errors are Unavailable, non-2xx responses are *perr.UpstreamError carrying
// status and a bounded body, undecodable bodies are Parse errors.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
)

const (
	defaultTimeout = 15 * time.Second
	defaultUA      = "lectern"
	maxBody        = 8 << 20
	maxErrBody     = 2048
)

// Options configures a Client
type Options struct {
	Service   string // label used in errors and logs, e.g. "scripture"
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Header    http.Header // sent with every request

	// HTTPClient overrides the default client, mostly for tests
	HTTPClient *http.Client
}

// Client issues GET requests against one base URL
type Client struct {
	http *http.Client
	opts Options
	log  *logger.Logger
	now  func() time.Time
}

// New builds a Client; trailing slashes on BaseURL are dropped
func New(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http: hc,
		opts: o,
		log:  logger.Named(o.Service),
		now:  time.Now,
	}
}

// Service returns the label errors are tagged with
func (c *Client) Service() string { return c.opts.Service }

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string { return c.opts.BaseURL }

// URL joins path and query onto the base URL; path may omit its leading slash
func (c *Client) URL(path string, q url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.opts.BaseURL + path
	if len(q) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + q.Encode()
	}
	return u
}

// Get fetches path and returns the raw body; a 204 or empty body returns nil
func (c *Client) Get(ctx context.Context, path string, q url.Values, hdr http.Header) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path, q), nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "%s: build request", c.opts.Service)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for k, vv := range c.opts.Header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Set(k, v)
		}
	}

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s request failed", c.opts.Service)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("close body failed")
		}
	}()

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, perr.Upstream(c.opts.Service, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s: read body", c.opts.Service)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return body, nil
}

// GetJSON fetches path and decodes the body into out
// an empty body leaves out untouched and reports a Parse error
func (c *Client) GetJSON(ctx context.Context, path string, q url.Values, hdr http.Header, out any) error {
	body, err := c.Get(ctx, path, q, hdr)
	if err != nil {
		return err
	}
	if body == nil {
		return perr.Parsef("%s: empty response for %s", c.opts.Service, path)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeParse, "%s: invalid JSON from %s", c.opts.Service, path)
	}
	return nil
}

// GetTree fetches path and decodes it into the generic map[string]any / []any form
// a 204 or empty body yields a nil tree and no error
func (c *Client) GetTree(ctx context.Context, path string, q url.Values, hdr http.Header) (any, error) {
	body, err := c.Get(ctx, path, q, hdr)
	if err != nil || body == nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeParse, "%s: invalid JSON from %s", c.opts.Service, path)
	}
	return v, nil
}
