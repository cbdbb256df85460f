package ports

import (
	"context"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

// SignupService creates new identities: uniqueness check, password policy,
// hashing, persistence, and default-role assignment in one atomic operation.
type SignupService interface {
	Signup(ctx context.Context, name, email, rawPassword string) (*domain.Identity, error)
}
