// Package domain holds the warm-up plan and its report
package domain

import (
	"context"
	"fmt"
	"time"

	"lectern/internal/adapters/calendar"
	"lectern/internal/adapters/scripture"
	"lectern/internal/core/cacheaside"
)

// Kind names what an item warms
type Kind string

const (
	KindDay   Kind = "day"   // coptic date plus readings for a gregorian date
	KindBooks Kind = "books" // book list of one translation
)

// Item is one unit of work
type Item struct {
	Kind        Kind
	Date        time.Time
	Translation string
	Lang        string
}

// String renders a stable label for logs and reports
func (i Item) String() string {
	switch i.Kind {
	case KindDay:
		return fmt.Sprintf("day:%s:%s", calendar.ISODate(i.Date), i.Lang)
	case KindBooks:
		return fmt.Sprintf("books:%s:%s", i.Translation, i.Lang)
	default:
		return string(i.Kind)
	}
}

// Plan is the requested warm-up
type Plan struct {
	Start, End   time.Time
	Translations []string
	Lang         string
}

// Items expands p into work items; days come first in date order
func (p Plan) Items() []Item {
	var out []Item
	start := truncateDay(p.Start)
	end := truncateDay(p.End)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, Item{Kind: KindDay, Date: d, Lang: p.Lang})
	}
	for _, t := range p.Translations {
		out = append(out, Item{Kind: KindBooks, Translation: t, Lang: p.Lang})
	}
	return out
}

// Days counts the calendar days in p
func (p Plan) Days() int {
	start, end := truncateDay(p.Start), truncateDay(p.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Outcome is the result of one item
type Outcome struct {
	Item    Item
	Source  cacheaside.Source
	Err     error
	Elapsed time.Duration
}

// Failed reports an item that produced no value at all
func (o Outcome) Failed() bool { return o.Err != nil }

// Report aggregates outcomes
type Report struct {
	Items    int
	BySource map[cacheaside.Source]int
	Failures []Outcome
}

// Add folds o into r
func (r *Report) Add(o Outcome) {
	r.Items++
	if o.Failed() {
		r.Failures = append(r.Failures, o)
		return
	}
	if r.BySource == nil {
		r.BySource = map[cacheaside.Source]int{}
	}
	r.BySource[o.Source]++
}

// OK reports a run with no failed items
func (r Report) OK() bool { return len(r.Failures) == 0 }

// CalendarPort is the calendar surface the warmer drives
type CalendarPort interface {
	GetDailyReadingsFor(ctx context.Context, iso, lang string) (calendar.Day, error)
}

// ScripturePort is the scripture surface the warmer drives
type ScripturePort interface {
	GetBooks(ctx context.Context, translation, lang string) (scripture.Result[[]scripture.Book], error)
}

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context, p Plan) (Report, error)
}
