package mocks

import (
	"context"
	"sync"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// TriggeredTask records one Trigger call
type TriggeredTask struct {
	Task    *domain.ConversionTask
	Options driven.TriggerOptions
}

// MockConversionQueue is a mock implementation of ConversionQueue for
// testing. It deduplicates by idempotency key the way the external
// queue would.
type MockConversionQueue struct {
	mu        sync.Mutex
	triggered []TriggeredTask
	seen      map[string]bool
	pending   []*domain.ConversionTask
	tasks     map[string]*domain.ConversionTask
	acked     map[string]bool
	nacked    map[string]string

	// TriggerErr makes Trigger fail
	TriggerErr error
}

// NewMockConversionQueue creates a new MockConversionQueue
func NewMockConversionQueue() *MockConversionQueue {
	return &MockConversionQueue{
		seen:   make(map[string]bool),
		tasks:  make(map[string]*domain.ConversionTask),
		acked:  make(map[string]bool),
		nacked: make(map[string]string),
	}
}

func (m *MockConversionQueue) Trigger(ctx context.Context, task *domain.ConversionTask, opts driven.TriggerOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TriggerErr != nil {
		return m.TriggerErr
	}
	if m.seen[opts.IdempotencyKey] {
		return nil
	}
	m.seen[opts.IdempotencyKey] = true
	m.triggered = append(m.triggered, TriggeredTask{Task: task, Options: opts})
	m.pending = append(m.pending, task)
	m.tasks[task.ID] = task
	return nil
}

func (m *MockConversionQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.ConversionTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, nil
	}
	task := m.pending[0]
	m.pending = m.pending[1:]
	task.MarkProcessing()
	return task, nil
}

func (m *MockConversionQueue) Ack(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked[taskID] = true
	if t, ok := m.tasks[taskID]; ok {
		t.MarkCompleted()
	}
	return nil
}

func (m *MockConversionQueue) Nack(ctx context.Context, taskID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nacked[taskID] = reason
	if t, ok := m.tasks[taskID]; ok {
		if t.CanRetry() {
			t.Retry(reason)
			m.pending = append(m.pending, t)
		} else {
			t.MarkFailed(reason)
		}
	}
	return nil
}

func (m *MockConversionQueue) GetTask(ctx context.Context, taskID string) (*domain.ConversionTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *MockConversionQueue) Ping(ctx context.Context) error { return nil }

func (m *MockConversionQueue) Close() error { return nil }

// Triggered returns a copy of the recorded Trigger calls
func (m *MockConversionQueue) Triggered() []TriggeredTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TriggeredTask, len(m.triggered))
	copy(out, m.triggered)
	return out
}

// Acked reports whether a task was acknowledged
func (m *MockConversionQueue) Acked(taskID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acked[taskID]
}

// NackReason returns the recorded nack reason for a task
func (m *MockConversionQueue) NackReason(taskID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nacked[taskID]
}
