// Package domain holds synaxarium API inputs and the port handlers consume
package domain

import (
	"context"

	"lectern/internal/adapters/synaxarium"
)

// DayQuery names a coptic month and day; lang falls back to Accept-Language
type DayQuery struct {
	Month int    `query:"month" validate:"required,min=1,max=13"`
	Day   int    `query:"day" validate:"required,min=1,max=30"`
	Lang  string `query:"lang" validate:"omitempty,max=16"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Get(ctx context.Context, month, day int, lang string) synaxarium.Result
}

var _ ServicePort = (*synaxarium.Resolver)(nil)
