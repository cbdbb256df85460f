package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/studybuddy/accounts-service/internal/core/domain"
	"github.com/studybuddy/accounts-service/internal/core/ports"
)

// RoleService grants and revokes role links for existing users. Both
// operations are idempotent; the composite key on the link table is the
// final guard against duplicate grants racing past the existence check.
type RoleService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleService(users ports.UserRepository, roles ports.RoleRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{users: users, roles: roles, logger: logger}
}

// Grant links the named role to the user. Granting an already-held role is
// a no-op success. Unknown user or role is ErrUserNotFound/ErrRoleNotFound.
func (s *RoleService) Grant(ctx context.Context, userID int64, roleName string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return err
	}

	if err := s.users.AddRoleLink(ctx, user.ID, role.ID); err != nil {
		return fmt.Errorf("add role link: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", role.Name).Msg("role granted")
	return nil
}

// Revoke removes the named role from the user. Revoking an absent link,
// an unknown role, or an unknown user is a no-op success. Nothing prevents
// removing a user's last role.
func (s *RoleService) Revoke(ctx context.Context, userID int64, roleName string) error {
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil
		}
		return err
	}

	if err := s.users.RemoveRoleLink(ctx, userID, role.ID); err != nil {
		return fmt.Errorf("remove role link: %w", err)
	}

	s.logger.Info().Int64("user_id", userID).Str("role", role.Name).Msg("role revoked")
	return nil
}

// List returns the role names currently held by the user.
func (s *RoleService) List(ctx context.Context, userID int64) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	links, err := s.users.RoleLinks(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list role links: %w", err)
	}

	names := make([]string, 0, len(links))
	for _, link := range links {
		names = append(names, link.RoleName)
	}
	return names, nil
}
