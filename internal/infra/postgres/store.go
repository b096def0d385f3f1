// Package postgres keeps the whole document in a single JSONB row, which
// preserves the read-whole/write-whole storage discipline while gaining a
// durable backend.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"community-hub/internal/domain"
)

// DocumentStore loads and saves the document row.
type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

func (s *DocumentStore) Load(ctx context.Context) (domain.Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM documents WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, nil
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("load document: %w", err)
	}
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) Save(ctx context.Context, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (id, data) VALUES (1, $1::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, data)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
