package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven/mocks"
)

func TestValidateToken(t *testing.T) {
	adapter := mocks.NewMockAuthAdapter()
	svc := NewAuthService(adapter)

	token, err := adapter.GenerateToken(&domain.TokenClaims{
		UserID:    "user-1",
		TeamID:    "team-1",
		TeamPlan:  "business",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.TeamID != "team-1" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	adapter := mocks.NewMockAuthAdapter()
	svc := NewAuthService(adapter)

	token, _ := adapter.GenerateToken(&domain.TokenClaims{
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	_, err := svc.ValidateToken(context.Background(), token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_Invalid(t *testing.T) {
	adapter := mocks.NewMockAuthAdapter()
	svc := NewAuthService(adapter)

	_, err := svc.ValidateToken(context.Background(), "no-such-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateToken_AdapterError(t *testing.T) {
	adapter := mocks.NewMockAuthAdapter()
	adapter.ValidateErr = errors.New("signature check failed")
	svc := NewAuthService(adapter)

	_, err := svc.ValidateToken(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected adapter error to surface")
	}
}
