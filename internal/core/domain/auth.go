package domain

import "time"

// TokenClaims are the authenticated-session claims carried in a bearer
// token. User and team management live outside this core; requests
// arrive already scoped to a team.
type TokenClaims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TeamID    string    `json:"team_id"`
	TeamPlan  string    `json:"team_plan"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the claims have expired.
func (c *TokenClaims) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}
