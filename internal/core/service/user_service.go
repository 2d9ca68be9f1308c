package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/ports"
)

// UserService implements directory CRUD. Privilege flags and specialization
// are re-derived on every save via User.Normalize, independent of any
// boundary-level checks. Mutations evict the user's cached caller identity so
// a role change takes effect on the next request, not after the cache TTL;
// deleting a user also revokes their bearer token.
type UserService struct {
	repo   ports.UserRepository
	tokens ports.TokenRepository
	cache  CallerCache
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, tokens ports.TokenRepository, cache CallerCache, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, cache: cache, logger: logger}
}

func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrMissingUserField
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PasswordHash:   string(hash),
		Role:           input.Role,
		Specialization: input.Specialization,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	user.Normalize()

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, roleFilter string) ([]*domain.User, error) {
	if roleFilter == "" {
		return s.repo.List(ctx, nil)
	}

	role, err := domain.ParseRole(roleFilter)
	if err != nil || role == domain.RoleAdmin {
		return nil, domain.ErrInvalidRoleFilter
	}
	return s.repo.List(ctx, &role)
}

func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.Specialization != nil {
		user.Specialization = *input.Specialization
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = time.Now().UTC()
	user.Normalize()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.evictCaller(ctx, updated.ID, false)

	s.logger.Info().Str("id", updated.ID).Str("role", string(updated.Role)).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evictCaller(ctx, id, true)
	s.logger.Info().Str("id", id).Msg("user deleted")
	return nil
}

// evictCaller drops the cached caller identity behind the user's bearer
// token, and revokes the token itself when the account is gone. Failures are
// logged, not surfaced: the mutation already committed and a stale cache
// entry self-heals when its TTL lapses.
func (s *UserService) evictCaller(ctx context.Context, userID string, revokeToken bool) {
	if s.tokens == nil {
		return
	}

	t, err := s.tokens.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrTokenNotFound) {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("token lookup for cache eviction failed")
		}
		return
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, t.Token); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("caller cache eviction failed")
		}
	}
	if revokeToken {
		if err := s.tokens.DeleteByUserID(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("token revocation failed")
		}
	}
}
