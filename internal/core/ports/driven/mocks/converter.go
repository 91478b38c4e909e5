package mocks

import (
	"context"
	"sync"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// MockConverter is a mock implementation of Converter for testing
type MockConverter struct {
	mu        sync.Mutex
	converted []*domain.ConversionTask

	// Steps are the progress percentages reported during Convert
	Steps []int

	// ConvertErr makes Convert fail
	ConvertErr error
}

// NewMockConverter creates a new MockConverter
func NewMockConverter() *MockConverter {
	return &MockConverter{Steps: []int{50}}
}

func (m *MockConverter) Convert(ctx context.Context, task *domain.ConversionTask, report func(percentage int)) error {
	m.mu.Lock()
	steps := m.Steps
	err := m.ConvertErr
	m.mu.Unlock()

	for _, p := range steps {
		report(p)
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.converted = append(m.converted, task)
	m.mu.Unlock()
	return nil
}

// Converted returns the tasks converted so far
func (m *MockConverter) Converted() []*domain.ConversionTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.ConversionTask, len(m.converted))
	copy(out, m.converted)
	return out
}
