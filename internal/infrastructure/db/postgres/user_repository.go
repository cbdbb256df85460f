package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// UserRepository is the pgx-backed credential store for users and their
// role links.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// userWithRolesQuery loads a user and all role links in a single read.
const userWithRolesQuery = `
SELECT u.id, u.name, u.email, u.password_hash, u.created_at,
       ur.role_id, r.name, ur.assigned_at
FROM users u
LEFT JOIN user_roles ur ON ur.user_id = u.id
LEFT JOIN roles r ON r.id = ur.role_id
`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, userWithRolesQuery+"WHERE lower(u.email) = $1", domain.NormalizeEmail(email))
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, userWithRolesQuery+"WHERE u.id = $1", id)
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*domain.User, error) {
	return r.findOne(ctx, userWithRolesQuery+"WHERE u.name = $1", name)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return &users[0], nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)",
		domain.NormalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, userWithRolesQuery+"ORDER BY u.id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// CreateWithRole inserts the user and its first role link in one
// transaction, so a crash mid-operation can never leave a user with zero
// roles. A duplicate email caught by the unique index surfaces as
// domain.ErrEmailTaken.
func (r *UserRepository) CreateWithRole(ctx context.Context, user *domain.User, role *domain.Role) (*domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		"INSERT INTO users (name, email, password_hash, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		user.Name, user.Email, user.PasswordHash, user.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	var assignedAt time.Time
	err = tx.QueryRow(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) RETURNING assigned_at",
		id, role.ID,
	).Scan(&assignedAt)
	if err != nil {
		return nil, fmt.Errorf("insert role link: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	created := *user
	created.ID = id
	created.Roles = []domain.UserRole{{
		UserID:     id,
		RoleID:     role.ID,
		RoleName:   role.Name,
		AssignedAt: assignedAt,
	}}
	return &created, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, email string) (*domain.User, error) {
	cmd, err := r.pool.Exec(ctx,
		"UPDATE users SET name = $2, email = $3 WHERE id = $1",
		id, name, email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx,
		"UPDATE users SET password_hash = $2 WHERE id = $1",
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AddRoleLink inserts the (user, role) link; the composite primary key plus
// ON CONFLICT DO NOTHING makes duplicate grants a no-op.
func (r *UserRepository) AddRoleLink(ctx context.Context, userID int64, roleID int32) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, roleID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert role link: %w", err)
	}
	return nil
}

func (r *UserRepository) RemoveRoleLink(ctx context.Context, userID int64, roleID int32) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2",
		userID, roleID,
	)
	if err != nil {
		return fmt.Errorf("delete role link: %w", err)
	}
	return nil
}

func (r *UserRepository) RoleLinks(ctx context.Context, userID int64) ([]domain.UserRole, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ur.user_id, ur.role_id, r.name, ur.assigned_at
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query role links: %w", err)
	}
	defer rows.Close()

	var links []domain.UserRole
	for rows.Next() {
		var link domain.UserRole
		if err := rows.Scan(&link.UserID, &link.RoleID, &link.RoleName, &link.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan role link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *UserRepository) HasRole(ctx context.Context, userID int64, roleName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = $1 AND r.name = $2
		)`,
		userID, roleName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role link: %w", err)
	}
	return exists, nil
}

// collectUsers folds joined user/role rows into users with their links.
// Row order within a user is preserved from the query.
func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var (
		users []domain.User
		index = map[int64]int{}
	)

	for rows.Next() {
		var (
			u          domain.User
			roleID     *int32
			roleName   *string
			assignedAt *time.Time
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &roleID, &roleName, &assignedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		pos, seen := index[u.ID]
		if !seen {
			pos = len(users)
			index[u.ID] = pos
			users = append(users, u)
		}
		if roleID != nil && roleName != nil {
			link := domain.UserRole{
				UserID:   u.ID,
				RoleID:   *roleID,
				RoleName: *roleName,
			}
			if assignedAt != nil {
				link.AssignedAt = *assignedAt
			}
			users[pos].Roles = append(users[pos].Roles, link)
		}
	}
	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
