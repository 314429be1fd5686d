// Package domain holds document API inputs, outputs and the port handlers consume
package domain

import (
	"context"

	"lectern/internal/adapters/documents"
)

// DocQuery picks the language version of a document
type DocQuery struct {
	Lang string `query:"lang" validate:"omitempty,max=16"`
}

// SearchQuery searches inside one resolved document
type SearchQuery struct {
	Lang  string `query:"lang" validate:"omitempty,max=16"`
	Q     string `query:"q" validate:"omitempty,max=200"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// SearchView is the payload of GET /documents/{category}/{slug}/search
type SearchView struct {
	documents.Resolved
	Query string          `json:"query"`
	Hits  []documents.Hit `json:"hits"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List() []documents.Info
	Load(ctx context.Context, id, lang string) (*documents.Document, error)
}

var _ ServicePort = (*documents.Registry)(nil)
