package domain

import (
	"time"

	"github.com/google/uuid"
)

// StorageType identifies where a document's bytes live.
type StorageType string

const (
	// StorageTypeBlob is public blob storage, addressed by an HTTPS URL.
	StorageTypeBlob StorageType = "BLOB"
	// StorageTypePath is team-scoped object storage, addressed by a
	// <teamOrOwnerId>/doc_<id>/<filename>.<ext> path.
	StorageTypePath StorageType = "PATH"
)

// DocumentPayload is the transport-layer description of a just-uploaded
// file. It is validated and consumed by the ingestion orchestrator and
// never persisted as-is.
type DocumentPayload struct {
	Name        string      `json:"name"`
	Key         string      `json:"key"`
	StorageType StorageType `json:"storageType"`
	ContentType string      `json:"contentType,omitempty"`

	// Type is the declared logical type. Empty means derive it from the
	// filename extension.
	Type DocumentType `json:"type,omitempty"`

	FileSize int64 `json:"fileSize,omitempty"`
	NumPages int   `json:"numPages,omitempty"`

	// AdvancedMode routes sheet uploads through the advanced processing
	// pipeline instead of the in-app viewer.
	AdvancedMode bool `json:"advancedMode,omitempty"`
}

// Document is the root entity created exactly once per upload.
type Document struct {
	ID     string `json:"id"`
	TeamID string `json:"team_id"`

	// OwnerID is the uploading user, empty for external uploads.
	OwnerID string `json:"owner_id,omitempty"`

	// FolderID is empty when the document sits at the team root.
	FolderID string `json:"folder_id,omitempty"`

	Name string       `json:"name"`
	Type DocumentType `json:"type"`

	// DownloadOnly marks documents that have no in-app viewer. Derived,
	// never user-set.
	DownloadOnly bool `json:"download_only"`

	IsExternalUpload bool `json:"is_external_upload"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Versions []*DocumentVersion `json:"versions,omitempty"`
	Links    []*Link            `json:"links,omitempty"`
}

// PrimaryVersion returns the primary version, or nil if none is loaded.
func (d *Document) PrimaryVersion() *DocumentVersion {
	for _, v := range d.Versions {
		if v.IsPrimary {
			return v
		}
	}
	return nil
}

// DocumentVersion is one stored revision of a document. The version
// created alongside the document is always number 1 and primary.
type DocumentVersion struct {
	ID            string       `json:"id"`
	DocumentID    string       `json:"document_id"`
	VersionNumber int          `json:"version_number"`
	IsPrimary     bool         `json:"is_primary"`
	Key           string       `json:"key"`
	ContentType   string       `json:"content_type,omitempty"`
	Type          DocumentType `json:"type"`
	StorageType   StorageType  `json:"storage_type"`
	FileSize      int64        `json:"file_size,omitempty"`
	NumPages      int          `json:"num_pages,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Link is a share link scoped to one document and one team.
type Link struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	TeamID     string `json:"team_id"`
	Slug       string `json:"slug"`

	// PasswordHash is a bcrypt hash when the link is password protected.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Folder is resolved by team + path. Read-only from this core's
// perspective.
type Folder struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDocumentID returns a fresh document identifier.
func NewDocumentID() string { return "doc_" + uuid.NewString() }

// NewVersionID returns a fresh document-version identifier.
func NewVersionID() string { return "ver_" + uuid.NewString() }

// NewLinkID returns a fresh link identifier.
func NewLinkID() string { return "lnk_" + uuid.NewString() }

// NewLinkSlug returns the public slug for a share link.
func NewLinkSlug() string { return uuid.NewString() }
