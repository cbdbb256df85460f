package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studybuddy/accounts-service/internal/core/domain"
	"github.com/studybuddy/accounts-service/internal/core/ports"
)

// UserService handles the profile lifecycle outside of signup: reads,
// profile updates, password changes, and deletion.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.Identity, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

func (s *UserService) List(ctx context.Context) ([]domain.Identity, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	identities := make([]domain.Identity, 0, len(users))
	for i := range users {
		identities = append(identities, *users[i].Identity())
	}
	return identities, nil
}

func (s *UserService) FindByName(ctx context.Context, name string) (*domain.Identity, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	user, err := s.users.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// UpdateProfile changes name and/or email. Moving to an email already owned
// by another user fails with ErrEmailTaken.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, name, email string) (*domain.Identity, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)

	fields := map[string]string{}
	if n := len([]rune(name)); n < nameMinLen || n > nameMaxLen {
		fields["name"] = fmt.Sprintf("must be %d-%d characters", nameMinLen, nameMaxLen)
	}
	if msg := checkEmail(email); msg != "" {
		fields["email"] = msg
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(user.Email, email) {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
	}

	updated, err := s.users.UpdateProfile(ctx, id, name, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("profile updated")
	return updated.Identity(), nil
}

// ChangePassword verifies the current password before accepting a new one.
// The new password must pass the same strength policy as signup.
func (s *UserService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	if msg := domain.CheckPasswordStrength(newPassword); msg != "" {
		return domain.NewValidationError("new_password", msg)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.NewValidationError("current_password", "is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("password changed")
	return nil
}

// Delete removes the user; the store cascades away its role links.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user deleted")
	return nil
}
