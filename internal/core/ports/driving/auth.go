package driving

import (
	"context"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// AuthService validates bearer tokens for the HTTP adapter.
type AuthService interface {
	// ValidateToken verifies a token and returns its claims.
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
