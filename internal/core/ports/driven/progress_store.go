package driven

import (
	"context"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// ProgressStore keeps per-version conversion progress in a fast
// key-value store for UI polling.
type ProgressStore interface {
	// Get retrieves the progress record for a document version.
	// Returns domain.ErrNotFound when no record exists yet.
	Get(ctx context.Context, versionID string) (*domain.ConversionProgress, error)

	// Set writes the progress record for a document version.
	Set(ctx context.Context, versionID string, progress *domain.ConversionProgress) error
}
