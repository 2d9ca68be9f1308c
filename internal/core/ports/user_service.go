package ports

import (
	"context"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

// CreateUserInput carries all fields accepted when creating a user.
type CreateUserInput struct {
	Username       string
	Email          string
	FirstName      string
	LastName       string
	Password       string
	Role           domain.Role
	Specialization string
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Email          *string
	FirstName      *string
	LastName       *string
	Password       *string
	Role           *domain.Role
	Specialization *string
}

// UserService defines directory use-cases. Access is admin-only and gated at
// the boundary; the service re-derives privilege flags on every save.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	// List returns users, optionally filtered by role. Only doctor and
	// patient are accepted as filter values.
	List(ctx context.Context, roleFilter string) ([]*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
