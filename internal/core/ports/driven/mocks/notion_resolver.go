package mocks

import (
	"context"
	"sync"
)

// MockNotionResolver is a mock implementation of NotionResolver for testing
type MockNotionResolver struct {
	mu    sync.RWMutex
	pages map[string]string // key -> page id
}

// NewMockNotionResolver creates a new MockNotionResolver
func NewMockNotionResolver() *MockNotionResolver {
	return &MockNotionResolver{pages: make(map[string]string)}
}

// AddPage registers a resolvable key
func (m *MockNotionResolver) AddPage(key, pageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[key] = pageID
}

func (m *MockNotionResolver) ResolvePageID(ctx context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.pages[key]
	return id, ok
}
