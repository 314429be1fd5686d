package calendar

import (
	"time"

	"lectern/internal/core/cacheaside"
	"lectern/internal/core/fallback"
)

// CopticDate is a day of the coptic calendar
type CopticDate struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"monthName"`
}

// Service names a reading service
type Service string

const (
	Matins  Service = "matins"
	Vespers Service = "vespers"
	Liturgy Service = "liturgy"
)

// Label is the default source label of items from s
func (s Service) Label() string {
	switch s {
	case Matins:
		return "Matins"
	case Vespers:
		return "Vespers"
	}
	return "Liturgy"
}

// ReadingItem is one reading of a service
type ReadingItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Reference string `json:"reference,omitempty"`
	Text      string `json:"text,omitempty"`
	Source    string `json:"source"`
}

// DailyReadings groups a day's readings by service; every slice is non-nil
type DailyReadings struct {
	Matins  []ReadingItem `json:"matins"`
	Vespers []ReadingItem `json:"vespers"`
	Liturgy []ReadingItem `json:"liturgy"`
}

// Result carries a value, its cache provenance and the endpoint attempts made by this call
// Attempts is empty when the value came from the cache
type Result[T any] struct {
	Value     T
	Source    cacheaside.Source
	WrittenAt time.Time
	Attempts  []fallback.Attempt
}

// Day is a date together with its readings
type Day struct {
	Date     Result[CopticDate]
	Readings Result[DailyReadings]
}
