package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studybuddy/accounts-service/internal/core/domain"
	"github.com/studybuddy/accounts-service/internal/core/ports"
)

// timingDummyHash is a throwaway bcrypt hash compared against when the email
// is unknown, so that a missing user costs the same as a wrong password.
const timingDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

const defaultSessionTTL = 24 * time.Hour

// AuthService verifies credentials against the credential store and hands
// successful authentication contexts to the session store. It keeps no
// session state of its own and never tracks failed attempts.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, hasher ports.PasswordHasher, ttl time.Duration, logger zerolog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{users: users, sessions: sessions, hasher: hasher, ttl: ttl, logger: logger}
}

// Authenticate verifies the credential pair and, on success, persists a new
// authentication context under a fresh session id. Unknown email and wrong
// password both return ErrInvalidCredentials with no distinguishing signal.
func (s *AuthService) Authenticate(ctx context.Context, email, rawPassword string) (string, *domain.AuthContext, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || rawPassword == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a comparison anyway to keep the unknown-email path
			// indistinguishable from a wrong password.
			s.hasher.Verify(rawPassword, timingDummyHash)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(rawPassword, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	auth := &domain.AuthContext{
		Email: user.Email,
		Roles: user.RoleNames(),
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Save(ctx, sessionID, auth); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info().Str("email", user.Email).Msg("user authenticated")
	return sessionID, auth, nil
}

// Session resolves a session id to its stored authentication context.
func (s *AuthService) Session(ctx context.Context, sessionID string) (*domain.AuthContext, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.sessions.Find(ctx, sessionID)
}

// Logout discards the session. Unknown session ids are a no-op success.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}
