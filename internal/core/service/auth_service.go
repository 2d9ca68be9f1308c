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

// CallerCache is an optional read-through cache for token resolution
// (backed by Redis in production). A nil cache disables caching.
type CallerCache interface {
	Get(ctx context.Context, token string) (*domain.Caller, error)
	Set(ctx context.Context, token string, caller *domain.Caller) error
	Invalidate(ctx context.Context, token string) error
}

// AuthService implements login and bearer-token resolution over persistent
// opaque tokens: one per user, reused on re-login, no expiry.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenRepository
	cache  CallerCache
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenRepository, cache CallerCache, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cache: cache, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrMissingCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	// Patients hold accounts but are barred from authenticating.
	if user.Role == domain.RolePatient {
		return "", domain.ErrPatientLoginBarred
	}

	token, err := s.getOrCreateToken(ctx, user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("login succeeded")
	return token, nil
}

// getOrCreateToken returns the user's existing token or mints one. The
// unique index on user_id serializes concurrent first logins; the loser
// re-reads the winner's token.
func (s *AuthService) getOrCreateToken(ctx context.Context, userID string) (string, error) {
	existing, err := s.tokens.FindByUserID(ctx, userID)
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, domain.ErrTokenNotFound) {
		return "", err
	}

	raw, err := domain.NewTokenString()
	if err != nil {
		return "", err
	}
	t := &domain.AuthToken{Token: raw, UserID: userID, IssuedAt: time.Now().UTC()}
	if err := s.tokens.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			winner, ferr := s.tokens.FindByUserID(ctx, userID)
			if ferr != nil {
				return "", ferr
			}
			return winner.Token, nil
		}
		return "", err
	}
	return raw, nil
}

func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.Caller, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.cache != nil {
		if caller, err := s.cache.Get(ctx, token); err == nil && caller != nil {
			return caller, nil
		}
	}

	t, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	caller := &domain.Caller{ID: user.ID, Username: user.Username, Role: user.Role}

	if s.cache != nil {
		if err := s.cache.Set(ctx, token, caller); err != nil {
			s.logger.Warn().Err(err).Msg("caller cache write failed")
		}
	}

	return caller, nil
}
