package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/studybuddy/accounts-service/internal/core/domain"
	"github.com/studybuddy/accounts-service/internal/core/ports"
)

// AdminConfig describes the administrator account seeded at startup.
type AdminConfig struct {
	Enabled  bool
	Name     string
	Email    string
	Password string
}

// Seeder ensures the role reference data and, optionally, an administrator
// account exist before the service starts taking requests. Idempotent: safe
// to run on every startup.
type Seeder struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	admin  AdminConfig
	logger zerolog.Logger
}

func NewSeeder(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, admin AdminConfig, logger zerolog.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, hasher: hasher, admin: admin, logger: logger}
}

// Run seeds roles and the admin account.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.roles.Ensure(ctx, domain.RoleUser, domain.RoleAdmin); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	if !s.admin.Enabled {
		s.logger.Info().Msg("admin seeding disabled")
		return nil
	}

	admin, err := s.users.FindByEmail(ctx, s.admin.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("find admin: %w", err)
		}
		admin, err = s.createAdmin(ctx)
		if err != nil {
			return err
		}
	}

	// Both links are ensured idempotently; an existing admin that lost a
	// role gets it back here.
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		role, err := s.roles.FindByName(ctx, name)
		if err != nil {
			return fmt.Errorf("resolve role %s: %w", name, err)
		}
		if err := s.users.AddRoleLink(ctx, admin.ID, role.ID); err != nil {
			return fmt.Errorf("grant %s: %w", name, err)
		}
	}

	s.logger.Info().Str("email", s.admin.Email).Msg("admin seeding completed")
	return nil
}

func (s *Seeder) createAdmin(ctx context.Context) (*domain.User, error) {
	hash, err := s.hasher.Hash(s.admin.Password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	roleUser, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("resolve role %s: %w", domain.RoleUser, err)
	}

	admin, err := s.users.CreateWithRole(ctx, &domain.User{
		Name:         s.admin.Name,
		Email:        domain.NormalizeEmail(s.admin.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}, roleUser)
	if err != nil {
		// A concurrent replica may have created it first.
		if errors.Is(err, domain.ErrEmailTaken) {
			return s.users.FindByEmail(ctx, s.admin.Email)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info().Str("email", admin.Email).Msg("admin account created")
	return admin, nil
}
