package mocks

import (
	"context"
	"sync"
)

// WebhookCall records one delivery attempt
type WebhookCall struct {
	Event      string
	TeamID     string
	DocumentID string
	LinkID     string
}

// MockWebhookSender is a mock implementation of WebhookSender for testing
type MockWebhookSender struct {
	mu    sync.Mutex
	calls []WebhookCall

	// SendErr makes every delivery fail
	SendErr error
}

// NewMockWebhookSender creates a new MockWebhookSender
func NewMockWebhookSender() *MockWebhookSender {
	return &MockWebhookSender{}
}

func (m *MockWebhookSender) SendDocumentCreated(ctx context.Context, teamID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.calls = append(m.calls, WebhookCall{Event: "document.created", TeamID: teamID, DocumentID: documentID})
	return nil
}

func (m *MockWebhookSender) SendLinkCreated(ctx context.Context, teamID, documentID, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.calls = append(m.calls, WebhookCall{Event: "link.created", TeamID: teamID, DocumentID: documentID, LinkID: linkID})
	return nil
}

// Calls returns a copy of the recorded deliveries
func (m *MockWebhookSender) Calls() []WebhookCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WebhookCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockCacheRevalidator is a mock implementation of CacheRevalidator for testing
type MockCacheRevalidator struct {
	mu        sync.Mutex
	Documents []string

	// RevalidateErr makes every call fail
	RevalidateErr error
}

// NewMockCacheRevalidator creates a new MockCacheRevalidator
func NewMockCacheRevalidator() *MockCacheRevalidator {
	return &MockCacheRevalidator{}
}

func (m *MockCacheRevalidator) RevalidateDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevalidateErr != nil {
		return m.RevalidateErr
	}
	m.Documents = append(m.Documents, documentID)
	return nil
}
