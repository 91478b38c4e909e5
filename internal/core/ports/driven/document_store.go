package driven

import (
	"context"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL)
type DocumentStore interface {
	// Create writes the document, its first version and the optional
	// link (nil when no default share link was requested) in a single
	// transaction. Partial creation is an invariant violation: either
	// all rows exist afterwards or none do.
	Create(ctx context.Context, doc *domain.Document, version *domain.DocumentVersion, link *domain.Link) error

	// Get retrieves a document with its versions and links
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetVersion retrieves a document version by ID
	GetVersion(ctx context.Context, id string) (*domain.DocumentVersion, error)

	// UpdateVersionPageCount backfills the page count of a version.
	// Used by the advanced-sheet phase and by conversion completion.
	UpdateVersionPageCount(ctx context.Context, versionID string, numPages int) error
}

// FolderStore resolves folders by team and path. Folder management is
// external; this core only reads.
type FolderStore interface {
	// GetByPath retrieves a folder by team and path name.
	// Returns domain.ErrNotFound when no such folder exists.
	GetByPath(ctx context.Context, teamID, path string) (*domain.Folder, error)
}
