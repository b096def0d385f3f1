package memory

import (
	"context"
	"encoding/json"
	"sync"

	"community-hub/internal/domain"
)

// Store keeps the document in memory. Used in tests and when no backend is
// configured at all.
type Store struct {
	mu  sync.RWMutex
	raw []byte
}

func NewStore() *Store {
	return &Store{}
}

// Load decodes a private copy so callers can mutate freely; the stored
// bytes change only on Save, matching the file store's semantics.
func (s *Store) Load(_ context.Context) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var doc domain.Document
	if len(s.raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(s.raw, &doc); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

func (s *Store) Save(_ context.Context, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = data
	s.mu.Unlock()
	return nil
}
