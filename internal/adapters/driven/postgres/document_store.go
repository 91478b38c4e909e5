package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Create writes the document, its first version and the optional link
// in one transaction. Partial creation cannot survive a failure.
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document, version *domain.DocumentVersion, link *domain.Link) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		const docQuery = `
			INSERT INTO documents (id, team_id, owner_id, folder_id, name, type, download_only, is_external_upload, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, docQuery,
			doc.ID,
			doc.TeamID,
			NullString(doc.OwnerID),
			NullString(doc.FolderID),
			doc.Name,
			string(doc.Type),
			doc.DownloadOnly,
			doc.IsExternalUpload,
			doc.CreatedAt,
			doc.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}

		const versionQuery = `
			INSERT INTO document_versions (id, document_id, version_number, is_primary, key, content_type, type, storage_type, file_size, num_pages, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		if _, err := tx.ExecContext(ctx, versionQuery,
			version.ID,
			version.DocumentID,
			version.VersionNumber,
			version.IsPrimary,
			version.Key,
			NullString(version.ContentType),
			string(version.Type),
			string(version.StorageType),
			version.FileSize,
			version.NumPages,
			version.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert document version: %w", err)
		}

		if link != nil {
			const linkQuery = `
				INSERT INTO links (id, document_id, team_id, slug, password_hash, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`
			if _, err := tx.ExecContext(ctx, linkQuery,
				link.ID,
				link.DocumentID,
				link.TeamID,
				link.Slug,
				NullString(link.PasswordHash),
				link.CreatedAt,
			); err != nil {
				return fmt.Errorf("insert link: %w", err)
			}
		}

		return nil
	})
}

// Get retrieves a document with its versions and links
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	const query = `
		SELECT id, team_id, owner_id, folder_id, name, type, download_only, is_external_upload, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	var (
		doc      domain.Document
		owner    sql.NullString
		folder   sql.NullString
		typeName string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.TeamID,
		&owner,
		&folder,
		&doc.Name,
		&typeName,
		&doc.DownloadOnly,
		&doc.IsExternalUpload,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.OwnerID = StringValue(owner)
	doc.FolderID = StringValue(folder)
	doc.Type = domain.DocumentType(typeName)

	versions, err := s.versionsForDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Versions = versions

	links, err := s.linksForDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Links = links

	return &doc, nil
}

// GetVersion retrieves a document version by ID
func (s *DocumentStore) GetVersion(ctx context.Context, id string) (*domain.DocumentVersion, error) {
	const query = `
		SELECT id, document_id, version_number, is_primary, key, content_type, type, storage_type, file_size, num_pages, created_at
		FROM document_versions
		WHERE id = $1
	`
	v, err := scanVersion(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return v, err
}

// UpdateVersionPageCount backfills the page count of a version
func (s *DocumentStore) UpdateVersionPageCount(ctx context.Context, versionID string, numPages int) error {
	const query = `UPDATE document_versions SET num_pages = $2 WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, versionID, numPages)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) versionsForDocument(ctx context.Context, documentID string) ([]*domain.DocumentVersion, error) {
	const query = `
		SELECT id, document_id, version_number, is_primary, key, content_type, type, storage_type, file_size, num_pages, created_at
		FROM document_versions
		WHERE document_id = $1
		ORDER BY version_number
	`
	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*domain.DocumentVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *DocumentStore) linksForDocument(ctx context.Context, documentID string) ([]*domain.Link, error) {
	const query = `
		SELECT id, document_id, team_id, slug, password_hash, created_at
		FROM links
		WHERE document_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.Link
	for rows.Next() {
		var (
			link     domain.Link
			password sql.NullString
		)
		if err := rows.Scan(&link.ID, &link.DocumentID, &link.TeamID, &link.Slug, &password, &link.CreatedAt); err != nil {
			return nil, err
		}
		link.PasswordHash = StringValue(password)
		links = append(links, &link)
	}
	return links, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*domain.DocumentVersion, error) {
	var (
		v           domain.DocumentVersion
		contentType sql.NullString
		typeName    string
		storageName string
		fileSize    sql.NullInt64
		numPages    sql.NullInt64
	)
	if err := row.Scan(
		&v.ID,
		&v.DocumentID,
		&v.VersionNumber,
		&v.IsPrimary,
		&v.Key,
		&contentType,
		&typeName,
		&storageName,
		&fileSize,
		&numPages,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	v.ContentType = StringValue(contentType)
	v.Type = domain.DocumentType(typeName)
	v.StorageType = domain.StorageType(storageName)
	v.FileSize = fileSize.Int64
	v.NumPages = int(numPages.Int64)
	return &v, nil
}
