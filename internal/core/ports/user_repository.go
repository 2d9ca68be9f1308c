package ports

import (
	"context"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

// UserRepository defines persistence operations for directory users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns all users, optionally restricted to a single role.
	List(ctx context.Context, role *domain.Role) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// SearchDoctors returns doctors whose username contains the given
	// substring, case-insensitively.
	SearchDoctors(ctx context.Context, usernameSubstring string) ([]*domain.User, error)
}
