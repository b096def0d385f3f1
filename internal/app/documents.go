package app

import (
	"context"
	"fmt"
	"sync"

	"community-hub/internal/domain"
)

// Store persists the whole document (flat file, Redis key, Postgres row).
// There is no partial update: Load returns everything, Save replaces
// everything.
type Store interface {
	Load(ctx context.Context) (domain.Document, error)
	Save(ctx context.Context, doc domain.Document) error
}

// Documents serializes read-modify-write cycles over a Store. The backing
// stores have no transactions, so the mutex is the only thing keeping two
// mutations from interleaving and silently dropping one writer's update.
type Documents struct {
	mu    sync.Mutex
	store Store
}

func NewDocuments(store Store) *Documents {
	return &Documents{store: store}
}

// View runs fn against a loaded snapshot. fn must not retain or mutate the
// document.
func (d *Documents) View(ctx context.Context, fn func(domain.Document) error) error {
	doc, err := d.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	return fn(doc)
}

// Update loads the document, applies fn, and writes the result back whole.
// If fn returns an error nothing is persisted. A failed save surfaces as an
// error with the mutation already applied in memory only; callers must not
// blindly retry, since the failure may sit in the response path rather than
// the write itself.
func (d *Documents) Update(ctx context.Context, fn func(*domain.Document) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if err := fn(&doc); err != nil {
		return err
	}
	if err := d.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// SeedQuestions fills the stored pool from the embedded one when empty.
func (d *Documents) SeedQuestions(ctx context.Context, pool []domain.Question) error {
	return d.Update(ctx, func(doc *domain.Document) error {
		if len(doc.Questions) > 0 {
			return nil
		}
		doc.Questions = pool
		return nil
	})
}
