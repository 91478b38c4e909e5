package services

import (
	"context"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
	"github.com/foliodocs/folio-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService validates bearer tokens. Sessions are issued elsewhere;
// this core only verifies the signed claims on incoming requests.
type authService struct {
	adapter driven.AuthAdapter
}

// NewAuthService creates a new AuthService.
func NewAuthService(adapter driven.AuthAdapter) driving.AuthService {
	return &authService{adapter: adapter}
}

// ValidateToken verifies a token and returns its claims.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.adapter.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.IsExpired() {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}
