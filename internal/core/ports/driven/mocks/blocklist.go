package mocks

import (
	"context"
	"sync"
)

// MockBlocklistSource is a mock implementation of BlocklistSource for testing
type MockBlocklistSource struct {
	mu       sync.RWMutex
	keywords []string

	// FetchErr simulates blocklist-service unavailability
	FetchErr error
}

// NewMockBlocklistSource creates a new MockBlocklistSource
func NewMockBlocklistSource(keywords ...string) *MockBlocklistSource {
	return &MockBlocklistSource{keywords: keywords}
}

// SetKeywords replaces the keyword list
func (m *MockBlocklistSource) SetKeywords(keywords ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywords = keywords
}

func (m *MockBlocklistSource) FetchKeywords(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out, nil
}
