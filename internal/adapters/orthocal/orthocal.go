// Package orthocal reads daily readings, feasts and fasts of the Orthodox Church in America calendar
package orthocal

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lectern/internal/adapters/upstream"
	"lectern/internal/core/cacheaside"
	"lectern/internal/core/contenttree"
	"lectern/internal/core/textnorm"
	perr "lectern/internal/platform/errors"
	ptime "lectern/internal/platform/time"
)

const service = "orthocal"

// Reading is one scripture reading of the day
type Reading struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Citation string `json:"citation,omitempty"`
	Text     string `json:"text,omitempty"`
	Service  string `json:"service,omitempty"`
}

// Feast is one commemoration of the day
type Feast struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Rank        string `json:"rank,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// Fast describes the fasting rule of the day
type Fast struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FastingLevel string `json:"fastingLevel,omitempty"`
	Color        string `json:"color,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Adapter is the orthocal content source
type Adapter struct {
	http *upstream.Client
	orch *cacheaside.Orchestrator
	ttl  time.Duration
}

// New builds an Adapter
func New(cfg Config, orch *cacheaside.Orchestrator) *Adapter {
	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	return &Adapter{
		http: upstream.New(upstream.Options{Service: service, BaseURL: base, Timeout: cfg.Timeout}),
		orch: orch,
		ttl:  orch.TTL().Calendar,
	}
}

// DateParam keeps the YYYY-MM-DD prefix of s and validates it
func DateParam(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	if _, err := ptime.ParseDate(s); err != nil {
		return "", perr.WithField(perr.InvalidArgf("date must be YYYY-MM-DD, got %q", s), "date")
	}
	return s, nil
}

// list fetches path for day and returns the objects under field
func (a *Adapter) list(ctx context.Context, path, day, field string) ([]map[string]any, error) {
	v, err := a.http.GetTree(ctx, path, url.Values{"date": {day}}, nil)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, perr.Parsef("orthocal: empty response for %s", path)
	}
	root, ok := v.(map[string]any)
	if !ok {
		return nil, perr.Parsef("orthocal: %s payload is not an object", path)
	}
	return contenttree.Objects(contenttree.Seq(root[field])), nil
}

func itemID(day, kind string, i int) string { return day + ":" + kind + ":" + strconv.Itoa(i) }

// GetDailyReadings lists the readings for date
func (a *Adapter) GetDailyReadings(ctx context.Context, date string) (cacheaside.Result[[]Reading], error) {
	day, err := DateParam(date)
	if err != nil {
		return cacheaside.Result[[]Reading]{}, err
	}
	return cacheaside.Fetch(ctx, a.orch, "orthocal:readings:"+day, a.ttl, func(ctx context.Context) ([]Reading, error) {
		items, err := a.list(ctx, "/daily/", day, "readings")
		if err != nil {
			return nil, err
		}
		out := make([]Reading, 0, len(items))
		for i, m := range items {
			title := contenttree.Str(m, "title", "display")
			if title == "" {
				title = "Reading"
			}
			out = append(out, Reading{
				ID:       itemID(day, "reading", i),
				Title:    textnorm.Text(title),
				Citation: contenttree.Str(m, "cite", "book"),
				Text:     textnorm.Text(contenttree.Str(m, "text")),
				Service:  contenttree.Str(m, "service"),
			})
		}
		return out, nil
	})
}

// GetFeasts lists the feasts for date
func (a *Adapter) GetFeasts(ctx context.Context, date string) (cacheaside.Result[[]Feast], error) {
	day, err := DateParam(date)
	if err != nil {
		return cacheaside.Result[[]Feast]{}, err
	}
	return cacheaside.Fetch(ctx, a.orch, "orthocal:feasts:"+day, a.ttl, func(ctx context.Context) ([]Feast, error) {
		items, err := a.list(ctx, "/feastdays/", day, "feasts")
		if err != nil {
			return nil, err
		}
		out := make([]Feast, 0, len(items))
		for i, m := range items {
			title := contenttree.Str(m, "title")
			if title == "" {
				title = "Feast"
			}
			out = append(out, Feast{
				ID:          itemID(day, "feast", i),
				Title:       textnorm.Text(title),
				Rank:        contenttree.Str(m, "rank"),
				Color:       contenttree.Str(m, "color"),
				Description: textnorm.Text(contenttree.Str(m, "description")),
			})
		}
		return out, nil
	})
}

// GetFasts lists the fasting rules for date
func (a *Adapter) GetFasts(ctx context.Context, date string) (cacheaside.Result[[]Fast], error) {
	day, err := DateParam(date)
	if err != nil {
		return cacheaside.Result[[]Fast]{}, err
	}
	return cacheaside.Fetch(ctx, a.orch, "orthocal:fasts:"+day, a.ttl, func(ctx context.Context) ([]Fast, error) {
		items, err := a.list(ctx, "/fasts/", day, "fasts")
		if err != nil {
			return nil, err
		}
		out := make([]Fast, 0, len(items))
		for i, m := range items {
			name := contenttree.Str(m, "name")
			if name == "" {
				name = "Fast"
			}
			out = append(out, Fast{
				ID:           itemID(day, "fast", i),
				Name:         textnorm.Text(name),
				FastingLevel: contenttree.Str(m, "fasting_level", "fastingLevel"),
				Color:        contenttree.Str(m, "color"),
				Description:  textnorm.Text(contenttree.Str(m, "description")),
			})
		}
		return out, nil
	})
}
