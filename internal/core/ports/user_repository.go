package ports

import (
	"context"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

// UserRepository is the persistence port for users and their role links.
//
// Lookups by email operate on the normalized (case-folded) address and load
// role links eagerly in a single read. CreateWithRole persists the user and
// its first role link inside one transaction; a unique-constraint violation
// on email surfaces as domain.ErrEmailTaken, never as a raw store error.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByName(ctx context.Context, name string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)

	CreateWithRole(ctx context.Context, user *domain.User, role *domain.Role) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error

	// AddRoleLink and RemoveRoleLink are idempotent: adding an existing
	// link or removing an absent one succeeds without effect.
	AddRoleLink(ctx context.Context, userID int64, roleID int32) error
	RemoveRoleLink(ctx context.Context, userID int64, roleID int32) error
	RoleLinks(ctx context.Context, userID int64) ([]domain.UserRole, error)
	HasRole(ctx context.Context, userID int64, roleName string) (bool, error)
}
