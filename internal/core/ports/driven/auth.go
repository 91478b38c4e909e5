package driven

import "github.com/foliodocs/folio-core/internal/core/domain"

// AuthAdapter handles token and password-hash operations
type AuthAdapter interface {
	// GenerateToken creates a signed token from claims
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ValidateToken verifies a token and extracts claims
	ValidateToken(token string) (*domain.TokenClaims, error)

	// HashPassword generates a hash from a plaintext password
	// (used for password-protected share links)
	HashPassword(password string) (string, error)

	// VerifyPassword checks if a password matches a hash
	VerifyPassword(password, hash string) bool
}
