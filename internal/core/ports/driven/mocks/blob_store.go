package mocks

import (
	"context"
	"sync"
)

// MockBlobStore is a mock implementation of BlobStore for testing
type MockBlobStore struct {
	mu     sync.Mutex
	copied []string

	// CopyErr makes CopyToProcessing fail
	CopyErr error
}

// NewMockBlobStore creates a new MockBlobStore
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{}
}

func (m *MockBlobStore) CopyToProcessing(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CopyErr != nil {
		return "", m.CopyErr
	}
	m.copied = append(m.copied, key)
	return "processing/" + key, nil
}

// Copied returns the keys copied so far
func (m *MockBlobStore) Copied() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.copied))
	copy(out, m.copied)
	return out
}
