package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
	"github.com/foliodocs/folio-core/internal/core/ports/driving"
)

// Ensure progressService implements ProgressService
var _ driving.ProgressService = (*progressService)(nil)

// progressService reads conversion progress for UI polling. It fails
// open: an absent record means the job has not started, a backend fault
// maps to a synthetic low-progress value.
type progressService struct {
	store  driven.ProgressStore
	logger *slog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(store driven.ProgressStore, logger *slog.Logger) driving.ProgressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &progressService{store: store, logger: logger}
}

// GetProgress returns the progress for a document version.
func (s *progressService) GetProgress(ctx context.Context, versionID string) *domain.ConversionProgress {
	progress, err := s.store.Get(ctx, versionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotStartedProgress()
		}
		s.logger.Warn("progress lookup failed", "document_version_id", versionID, "error", err)
		return domain.DegradedProgress()
	}
	return progress
}
