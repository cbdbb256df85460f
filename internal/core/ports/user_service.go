package ports

import (
	"context"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

// UserService covers profile lifecycle outside of signup: reads, profile
// updates, password changes, and deletion.
type UserService interface {
	Get(ctx context.Context, id int64) (*domain.Identity, error)
	List(ctx context.Context) ([]domain.Identity, error)
	FindByName(ctx context.Context, name string) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) (*domain.Identity, error)
	ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error
	Delete(ctx context.Context, id int64) error
}
