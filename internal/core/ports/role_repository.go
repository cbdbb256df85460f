package ports

import (
	"context"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

// RoleRepository is the lookup port for role reference data. Roles are
// pre-seeded; end-user flows never create them.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	// Ensure creates any of the named roles that do not exist yet.
	// Idempotent; used by startup seeding only.
	Ensure(ctx context.Context, names ...string) error
}
