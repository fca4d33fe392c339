package storage

import (
	"context"

	"github.com/openarcade/scorekeep/internal/model"
)

// Storage persists the application document as a single unit.
//
// Load returns an empty document when no document has been saved yet. Save
// must complete durably before returning; callers treat a mutation as failed
// if Save errors, and never expose a document that was not fully written.
type Storage interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
}
