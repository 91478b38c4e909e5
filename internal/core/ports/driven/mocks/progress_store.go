package mocks

import (
	"context"
	"sync"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// MockProgressStore is a mock implementation of ProgressStore for testing
type MockProgressStore struct {
	mu      sync.RWMutex
	records map[string]*domain.ConversionProgress

	// GetErr makes Get fail (simulates a backend fault)
	GetErr error

	// SetErr makes Set fail
	SetErr error
}

// NewMockProgressStore creates a new MockProgressStore
func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{records: make(map[string]*domain.ConversionProgress)}
}

func (m *MockProgressStore) Get(ctx context.Context, versionID string) (*domain.ConversionProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.records[versionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *MockProgressStore) Set(ctx context.Context, versionID string, progress *domain.ConversionProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.records[versionID] = progress
	return nil
}
