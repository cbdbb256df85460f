package ports

import (
	"context"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

// AuthService verifies credentials and manages session lifecycles.
// Authenticate returns the new session id together with the authentication
// context it persisted.
type AuthService interface {
	Authenticate(ctx context.Context, email, rawPassword string) (string, *domain.AuthContext, error)
	Session(ctx context.Context, sessionID string) (*domain.AuthContext, error)
	Logout(ctx context.Context, sessionID string) error
}
