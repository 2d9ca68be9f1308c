package ports

import (
	"context"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

// TokenRepository persists opaque bearer tokens, one per user. The user id
// must carry a storage-level uniqueness constraint so a login race cannot
// mint two tokens for the same account.
type TokenRepository interface {
	Create(ctx context.Context, t *domain.AuthToken) error
	FindByUserID(ctx context.Context, userID string) (*domain.AuthToken, error)
	FindByToken(ctx context.Context, token string) (*domain.AuthToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
