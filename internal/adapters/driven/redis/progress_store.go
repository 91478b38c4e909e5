package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ProgressStore = (*ProgressStore)(nil)

const (
	progressPrefix = "folio:progress:"

	// progressTTL keeps stale records from outliving the upload flow.
	progressTTL = 24 * time.Hour
)

// ProgressStore implements driven.ProgressStore using Redis.
// Progress records expire automatically via TTL.
type ProgressStore struct {
	client *redis.Client
}

// NewProgressStore creates a new Redis-backed ProgressStore
func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

// Get retrieves the progress record for a document version
func (s *ProgressStore) Get(ctx context.Context, versionID string) (*domain.ConversionProgress, error) {
	data, err := s.client.Get(ctx, progressPrefix+versionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	var progress domain.ConversionProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	return &progress, nil
}

// Set writes the progress record for a document version
func (s *ProgressStore) Set(ctx context.Context, versionID string, progress *domain.ConversionProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.client.Set(ctx, progressPrefix+versionID, data, progressTTL).Err(); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}
