package mocks

import (
	"context"
	"sync"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// MockDocumentStore is a mock implementation of DocumentStore for testing
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	versions  map[string]*domain.DocumentVersion
	links     map[string]*domain.Link

	// CreateErr makes Create fail (simulates commit failure)
	CreateErr error

	// PageCountErr makes UpdateVersionPageCount fail
	PageCountErr error

	// CreateCalls counts Create invocations
	CreateCalls int
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.Document),
		versions:  make(map[string]*domain.DocumentVersion),
		links:     make(map[string]*domain.Link),
	}
}

func (m *MockDocumentStore) Create(ctx context.Context, doc *domain.Document, version *domain.DocumentVersion, link *domain.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	stored := *doc
	m.documents[doc.ID] = &stored
	m.versions[version.ID] = version
	if link != nil {
		m.links[link.ID] = link
	}
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *doc
	for _, v := range m.versions {
		if v.DocumentID == id {
			out.Versions = append(out.Versions, v)
		}
	}
	for _, l := range m.links {
		if l.DocumentID == id {
			out.Links = append(out.Links, l)
		}
	}
	return &out, nil
}

func (m *MockDocumentStore) GetVersion(ctx context.Context, id string) (*domain.DocumentVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.versions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *MockDocumentStore) UpdateVersionPageCount(ctx context.Context, versionID string, numPages int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PageCountErr != nil {
		return m.PageCountErr
	}
	v, ok := m.versions[versionID]
	if !ok {
		return domain.ErrNotFound
	}
	v.NumPages = numPages
	return nil
}

// LinkCount returns the number of stored links for a document
func (m *MockDocumentStore) LinkCount(documentID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, l := range m.links {
		if l.DocumentID == documentID {
			n++
		}
	}
	return n
}
