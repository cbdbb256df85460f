package ports

import (
	"context"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

// SessionStore persists authentication contexts across requests. The core
// never holds session state itself; it hands the context to this
// collaborator at the authentication boundary.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, auth *domain.AuthContext) error
	Find(ctx context.Context, sessionID string) (*domain.AuthContext, error)
	Delete(ctx context.Context, sessionID string) error
}
