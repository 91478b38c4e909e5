package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FolderStore = (*FolderStore)(nil)

// FolderStore implements driven.FolderStore using PostgreSQL.
// Folder management is handled elsewhere; ingestion only resolves.
type FolderStore struct {
	db *DB
}

// NewFolderStore creates a new FolderStore
func NewFolderStore(db *DB) *FolderStore {
	return &FolderStore{db: db}
}

// GetByPath retrieves a folder by team and path name
func (s *FolderStore) GetByPath(ctx context.Context, teamID, path string) (*domain.Folder, error) {
	const query = `
		SELECT id, team_id, parent_id, name, path, created_at
		FROM folders
		WHERE team_id = $1 AND path = $2
	`
	var (
		folder domain.Folder
		parent sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, teamID, path).Scan(
		&folder.ID,
		&folder.TeamID,
		&parent,
		&folder.Name,
		&folder.Path,
		&folder.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	folder.ParentID = StringValue(parent)
	return &folder, nil
}
