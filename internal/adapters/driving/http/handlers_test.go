package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driving"
)

// Mock services for testing

type mockIngestionService struct {
	createFn func(ctx context.Context, req driving.CreateDocumentRequest) (*domain.Document, error)
	lastReq  *driving.CreateDocumentRequest
}

func (m *mockIngestionService) CreateDocument(ctx context.Context, req driving.CreateDocumentRequest) (*domain.Document, error) {
	m.lastReq = &req
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type mockProgressService struct {
	progress *domain.ConversionProgress
}

func (m *mockProgressService) GetProgress(ctx context.Context, versionID string) *domain.ConversionProgress {
	if m.progress != nil {
		return m.progress
	}
	return domain.NotStartedProgress()
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

func newTestServer(ingestion *mockIngestionService, progress *mockProgressService) *Server {
	return NewServer(
		DefaultConfig(),
		&fakeAuthService{claims: validClaims()},
		ingestion,
		progress,
		&mockPinger{},
		&mockPinger{},
	)
}

func committedDocument() *domain.Document {
	now := time.Now()
	return &domain.Document{
		ID:        "doc_abc",
		TeamID:    "team-1",
		Name:      "report.pdf",
		Type:      domain.TypePDF,
		CreatedAt: now,
		UpdatedAt: now,
		Versions: []*domain.DocumentVersion{{
			ID:            "ver_xyz",
			DocumentID:    "doc_abc",
			VersionNumber: 1,
			IsPrimary:     true,
			Key:           "team-1/doc_abc/report.pdf",
			ContentType:   "application/pdf",
			Type:          domain.TypePDF,
			StorageType:   domain.StorageTypePath,
			CreatedAt:     now,
		}},
	}
}

func createDocumentBody() []byte {
	body, _ := json.Marshal(CreateDocumentRequest{
		Name:        "report.pdf",
		Key:         "team-1/doc_abc/report.pdf",
		StorageType: domain.StorageTypePath,
		ContentType: "application/pdf",
		Type:        domain.TypePDF,
		FileSize:    1024,
	})
	return body
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&mockIngestionService{}, &mockProgressService{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}

func TestHandleReady_AllHealthy(t *testing.T) {
	s := newTestServer(&mockIngestionService{}, &mockProgressService{})

	req := httptest.NewRequest("GET", "/ready", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandleReady_DatabaseDown(t *testing.T) {
	s := NewServer(
		DefaultConfig(),
		&fakeAuthService{claims: validClaims()},
		&mockIngestionService{},
		&mockProgressService{},
		&mockPinger{err: errors.New("connection refused")},
		&mockPinger{},
	)

	req := httptest.NewRequest("GET", "/ready", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	s := NewServer(cfg, &fakeAuthService{claims: validClaims()},
		&mockIngestionService{}, &mockProgressService{}, &mockPinger{}, nil)

	req := httptest.NewRequest("GET", "/version", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", resp["version"])
	}
}

// Document creation

func TestHandleCreateDocument_Success(t *testing.T) {
	ingestion := &mockIngestionService{
		createFn: func(ctx context.Context, req driving.CreateDocumentRequest) (*domain.Document, error) {
			return committedDocument(), nil
		},
	}
	s := newTestServer(ingestion, &mockProgressService{})

	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewReader(createDocumentBody()))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var doc domain.Document
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if doc.ID != "doc_abc" {
		t.Errorf("expected doc_abc, got %s", doc.ID)
	}
	if doc.PrimaryVersion() == nil {
		t.Error("expected primary version in response")
	}

	// Team and user context comes from the token, not the body
	if ingestion.lastReq.TeamID != "team-1" {
		t.Errorf("expected team from claims, got %s", ingestion.lastReq.TeamID)
	}
	if ingestion.lastReq.TeamPlan != "business" {
		t.Errorf("expected plan from claims, got %s", ingestion.lastReq.TeamPlan)
	}
	if ingestion.lastReq.UserID != "user-1" {
		t.Errorf("expected user from claims, got %s", ingestion.lastReq.UserID)
	}
}

func TestHandleCreateDocument_Unauthenticated(t *testing.T) {
	s := newTestServer(&mockIngestionService{}, &mockProgressService{})

	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewReader(createDocumentBody()))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandleCreateDocument_InvalidBody(t *testing.T) {
	s := newTestServer(&mockIngestionService{}, &mockProgressService{})

	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewReader([]byte("not json")))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCreateDocument_SchemaValidationFails(t *testing.T) {
	s := newTestServer(&mockIngestionService{}, &mockProgressService{})

	// Link type must be an HTTPS URL
	body, _ := json.Marshal(CreateDocumentRequest{
		Name:        "my link",
		Key:         "not a url",
		StorageType: domain.StorageTypeBlob,
		Type:        domain.TypeLink,
	})

	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp ValidationErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Errors) == 0 {
		t.Fatal("expected field errors")
	}
	found := false
	for _, fe := range resp.Errors {
		if fe.Field == "url" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a url field error, got %+v", resp.Errors)
	}
}

func TestHandleCreateDocument_GateErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "notion page not public",
			err:        domain.ErrPageNotPublic,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "link blocked",
			err:        domain.ErrLinkBlocked,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "invalid url",
			err:        domain.ErrInvalidURL,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: could not determine document type", domain.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "commit failure",
			err:        errors.New("constraint violation"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestion := &mockIngestionService{
				createFn: func(ctx context.Context, req driving.CreateDocumentRequest) (*domain.Document, error) {
					return nil, tt.err
				},
			}
			s := newTestServer(ingestion, &mockProgressService{})

			req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewReader(createDocumentBody()))
			req.Header.Set("Authorization", "Bearer token")
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

// Progress polling

func TestHandleGetProgress_Success(t *testing.T) {
	progress := &mockProgressService{
		progress: &domain.ConversionProgress{Status: domain.ConversionStatusProcessing, Percentage: 60},
	}
	s := newTestServer(&mockIngestionService{}, progress)

	req := httptest.NewRequest("GET", "/api/v1/progress?documentVersionId=ver_xyz", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.ConversionProgress
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Percentage != 60 {
		t.Errorf("expected percentage 60, got %d", resp.Percentage)
	}
}

func TestHandleGetProgress_MissingVersionID(t *testing.T) {
	s := newTestServer(&mockIngestionService{}, &mockProgressService{})

	req := httptest.NewRequest("GET", "/api/v1/progress", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleGetProgress_NeverFails(t *testing.T) {
	// Progress service absorbed a backend fault and returned the
	// degraded payload; the endpoint still answers 200
	progress := &mockProgressService{progress: domain.DegradedProgress()}
	s := newTestServer(&mockIngestionService{}, progress)

	req := httptest.NewRequest("GET", "/api/v1/progress?documentVersionId=ver_xyz", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.ConversionProgress
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Percentage != 5 {
		t.Errorf("expected degraded percentage 5, got %d", resp.Percentage)
	}
}
