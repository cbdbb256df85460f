package ports

import "context"

// RoleService manages role links for existing users. Grant and Revoke are
// idempotent: a duplicate grant and a revoke of an absent link both succeed
// without effect.
type RoleService interface {
	Grant(ctx context.Context, userID int64, roleName string) error
	Revoke(ctx context.Context, userID int64, roleName string) error
	List(ctx context.Context, userID int64) ([]string, error)
}
