package memory

import (
	"context"
	"sync"

	"github.com/openarcade/scorekeep/internal/model"
	"github.com/openarcade/scorekeep/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu  sync.RWMutex
	doc *model.Document
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return model.NewDocument(), nil
	}
	return s.doc.Clone(), nil
}

func (s *Storage) Save(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return nil
}
