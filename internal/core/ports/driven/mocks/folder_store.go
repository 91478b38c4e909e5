package mocks

import (
	"context"
	"sync"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// MockFolderStore is a mock implementation of FolderStore for testing
type MockFolderStore struct {
	mu      sync.RWMutex
	folders map[string]*domain.Folder // key: teamID:path

	// LookupErr makes GetByPath fail with a non-not-found error
	LookupErr error
}

// NewMockFolderStore creates a new MockFolderStore
func NewMockFolderStore() *MockFolderStore {
	return &MockFolderStore{folders: make(map[string]*domain.Folder)}
}

// AddFolder registers a folder under a team and path
func (m *MockFolderStore) AddFolder(teamID string, folder *domain.Folder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folders[teamID+":"+folder.Path] = folder
}

func (m *MockFolderStore) GetByPath(ctx context.Context, teamID, path string) (*domain.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	folder, ok := m.folders[teamID+":"+path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return folder, nil
}
