package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// fakeAuthService implements driving.AuthService for handler tests
type fakeAuthService struct {
	claims *domain.TokenClaims
	err    error
}

func (f *fakeAuthService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func validClaims() *domain.TokenClaims {
	return &domain.TokenClaims{
		UserID:    "user-1",
		Email:     "test@example.com",
		TeamID:    "team-1",
		TeamPlan:  "business",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "valid bearer token",
			header:   "Bearer abc123",
			expected: "abc123",
		},
		{
			name:     "bearer with extra spaces",
			header:   "Bearer   token-with-spaces   ",
			expected: "token-with-spaces",
		},
		{
			name:     "lowercase bearer",
			header:   "bearer token123",
			expected: "token123",
		},
		{
			name:     "empty header",
			header:   "",
			expected: "",
		},
		{
			name:     "no bearer prefix",
			header:   "token123",
			expected: "",
		},
		{
			name:     "basic auth",
			header:   "Basic dXNlcjpwYXNz",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			result := extractBearerToken(req)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	if GetClaims(context.TODO()) != nil {
		t.Error("expected nil for empty context")
	}

	if GetClaims(context.Background()) != nil {
		t.Error("expected nil for context without claims")
	}

	claims := validClaims()
	ctx := context.WithValue(context.Background(), claimsContextKey, claims)
	got := GetClaims(ctx)
	if got == nil {
		t.Fatal("expected claims")
	}
	if got.TeamID != "team-1" {
		t.Errorf("expected team-1, got %s", got.TeamID)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	mw := NewAuthMiddleware(&fakeAuthService{claims: validClaims()})

	var gotClaims *domain.TokenClaims
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = GetClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if gotClaims == nil || gotClaims.UserID != "user-1" {
		t.Error("expected claims in request context")
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	mw := NewAuthMiddleware(&fakeAuthService{claims: validClaims()})

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	mw := NewAuthMiddleware(&fakeAuthService{err: domain.ErrTokenExpired})

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(&fakeAuthService{err: errors.New("bad signature")})

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	mw := NewRecoveryMiddleware(nil)

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	mw := NewLoggingMiddleware(nil)

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
}
