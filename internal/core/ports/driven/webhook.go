package driven

import "context"

// WebhookSender delivers lifecycle notifications. Fire-and-forget:
// errors are caught and logged by the caller, never surfaced to the
// uploading user.
type WebhookSender interface {
	// SendDocumentCreated notifies that a document was created.
	SendDocumentCreated(ctx context.Context, teamID, documentID string) error

	// SendLinkCreated notifies that a share link was created.
	SendLinkCreated(ctx context.Context, teamID, documentID, linkID string) error
}

// CacheRevalidator invalidates externally cached document pages after a
// side effect changes what viewers should see.
type CacheRevalidator interface {
	// RevalidateDocument requests revalidation for a document.
	RevalidateDocument(ctx context.Context, documentID string) error
}
