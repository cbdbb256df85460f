package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/studybuddy/accounts-service/internal/core/domain"
	"github.com/studybuddy/accounts-service/internal/core/ports"
)

const (
	nameMinLen  = 2
	nameMaxLen  = 100
	emailMaxLen = 150
)

// SignupService creates new identities. The email pre-check only exists to
// produce a friendly conflict error in the common case; the store's unique
// constraint is the authoritative guard against concurrent signups.
type SignupService struct {
	users       ports.UserRepository
	roles       ports.RoleRepository
	hasher      ports.PasswordHasher
	defaultRole string
	logger      zerolog.Logger
}

func NewSignupService(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, defaultRole string, logger zerolog.Logger) *SignupService {
	if defaultRole == "" {
		defaultRole = domain.RoleUser
	}
	return &SignupService{
		users:       users,
		roles:       roles,
		hasher:      hasher,
		defaultRole: defaultRole,
		logger:      logger,
	}
}

// Signup registers a new user: validates input, checks email uniqueness,
// hashes the password, and persists the user with the default role link in
// a single transaction. The returned Identity is built from the values at
// hand, without reloading from the store.
func (s *SignupService) Signup(ctx context.Context, name, email, rawPassword string) (*domain.Identity, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)

	if verr := validateSignup(name, email, rawPassword); verr != nil {
		return nil, verr
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	role, err := s.roles.FindByName(ctx, s.defaultRole)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.logger.Error().Str("role", s.defaultRole).Msg("default role not seeded")
			return nil, domain.ErrDefaultRoleMissing
		}
		return nil, fmt.Errorf("resolve default role: %w", err)
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.CreateWithRole(ctx, user, role)
	if err != nil {
		// A concurrent signup can slip past the pre-check; the unique
		// constraint reports it as ErrEmailTaken here.
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("email", created.Email).Str("role", role.Name).Msg("user signed up")

	return &domain.Identity{
		ID:        created.ID,
		Name:      created.Name,
		Email:     created.Email,
		Roles:     []string{role.Name},
		CreatedAt: created.CreatedAt,
	}, nil
}

func validateSignup(name, email, rawPassword string) error {
	fields := map[string]string{}

	if n := len([]rune(name)); n < nameMinLen || n > nameMaxLen {
		fields["name"] = fmt.Sprintf("must be %d-%d characters", nameMinLen, nameMaxLen)
	}
	if msg := checkEmail(email); msg != "" {
		fields["email"] = msg
	}
	if msg := domain.CheckPasswordStrength(rawPassword); msg != "" {
		fields["password"] = msg
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func checkEmail(email string) string {
	if email == "" {
		return "is required"
	}
	if len(email) > emailMaxLen {
		return fmt.Sprintf("must be at most %d characters", emailMaxLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "must be a valid email"
	}
	return ""
}
