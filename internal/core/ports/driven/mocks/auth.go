package mocks

import (
	"github.com/foliodocs/folio-core/internal/core/domain"
)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing
type MockAuthAdapter struct {
	// Claims returned by ValidateToken for any token in Tokens
	Tokens map[string]*domain.TokenClaims

	// ValidateErr makes ValidateToken fail
	ValidateErr error

	// HashErr makes HashPassword fail
	HashErr error
}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{Tokens: make(map[string]*domain.TokenClaims)}
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	token := domain.GenerateID()
	m.Tokens[token] = claims
	return token, nil
}

func (m *MockAuthAdapter) ValidateToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	claims, ok := m.Tokens[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return hash == "hashed:"+password
}
