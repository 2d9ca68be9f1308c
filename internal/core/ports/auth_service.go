package ports

import (
	"context"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

// AuthService authenticates users and resolves bearer tokens to callers.
type AuthService interface {
	// Login verifies credentials and returns the user's token, reusing the
	// existing one when present. Patients are rejected regardless of
	// credential validity.
	Login(ctx context.Context, username, password string) (string, error)
	// ResolveToken maps an opaque bearer token to the caller identity.
	ResolveToken(ctx context.Context, token string) (*domain.Caller, error)
}
