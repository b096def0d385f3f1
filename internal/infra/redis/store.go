// Package redis backs the document store and the rate limiter with Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"community-hub/internal/domain"
)

const documentKey = "community:document"

// DocumentStore keeps the whole document under a single key.
type DocumentStore struct {
	client *redis.Client
}

func NewDocumentStore(client *redis.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

func (s *DocumentStore) Load(ctx context.Context) (domain.Document, error) {
	raw, err := s.client.Get(ctx, documentKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Document{}, nil
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) Save(ctx context.Context, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.client.Set(ctx, documentKey, data, 0).Err(); err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}
