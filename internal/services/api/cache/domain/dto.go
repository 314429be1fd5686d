// Package domain holds cache administration inputs, outputs and the port handlers consume
package domain

import (
	"context"
	"time"

	"lectern/internal/core/cacheaside"
)

// KeyQuery names one cache key, e.g. scripture:de4e12af7f28f599-02:books
type KeyQuery struct {
	Key string `query:"key" validate:"required,max=512"`
}

// EntryView describes a stored envelope
type EntryView struct {
	Key       string     `json:"key"`
	Present   bool       `json:"present"`
	WrittenAt *time.Time `json:"writtenAt,omitempty"`
	Bytes     int        `json:"bytes"`
}

// ClearView confirms a deletion
type ClearView struct {
	Key     string `json:"key"`
	Cleared bool   `json:"cleared"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Peek(ctx context.Context, key string) (cacheaside.Envelope, bool)
	Clear(ctx context.Context, key string) error
}

var _ ServicePort = (*cacheaside.Orchestrator)(nil)
