package driving

import (
	"context"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// ProgressService reports conversion progress for UI polling.
type ProgressService interface {
	// GetProgress returns the progress for a document version. It
	// always returns a usable payload: absent records and backend
	// faults map to synthetic low-progress values.
	GetProgress(ctx context.Context, versionID string) *domain.ConversionProgress
}
