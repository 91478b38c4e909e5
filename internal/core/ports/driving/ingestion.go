package driving

import (
	"context"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// CreateDocumentRequest is the ingestion entry-point input: a validated
// payload plus team/user/folder context and the two independent flags.
type CreateDocumentRequest struct {
	Payload  domain.DocumentPayload
	TeamID   string
	TeamPlan string

	// UserID is empty for external uploads.
	UserID string

	// FolderPathName places the document in a folder; resolution
	// failures silently default to the team root.
	FolderPathName string

	// CreateLink creates a default share link in the same transaction.
	CreateLink bool

	// LinkPassword protects the created link; empty means none.
	LinkPassword string

	IsExternalUpload bool
}

// IngestionService is the document ingestion orchestrator. Once the
// durable commit succeeds the returned document is final: no later
// phase may turn the call into a failure.
type IngestionService interface {
	// CreateDocument validates, commits and fans out for one upload.
	CreateDocument(ctx context.Context, req CreateDocumentRequest) (*domain.Document, error)
}
