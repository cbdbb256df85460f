package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

// In-memory collaborators shared by the service tests. They mirror the store
// semantics the services rely on: case-insensitive email uniqueness, the
// composite key on role links, and atomic create-with-role.

type stubUserRepo struct {
	users     map[int64]*domain.User
	roleNames map[int32]string
	nextID    int64
	createErr error // forced CreateWithRole failure, e.g. a late unique violation
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[int64]*domain.User{}, roleNames: map[int32]string{}}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.UserRole(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByName(_ context.Context, name string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Name == name {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if _, err := r.FindByEmail(ctx, email); err == nil {
		return true, nil
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *stubUserRepo) CreateWithRole(_ context.Context, user *domain.User, role *domain.Role) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = r.nextID
	created.Roles = []domain.UserRole{{
		UserID:     created.ID,
		RoleID:     role.ID,
		RoleName:   role.Name,
		AssignedAt: time.Now().UTC(),
	}}
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id int64, name, email string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	u.Email = email
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) AddRoleLink(_ context.Context, userID int64, roleID int32) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for _, link := range u.Roles {
		if link.RoleID == roleID {
			return nil
		}
	}
	name := r.roleNames[roleID]
	if name == "" {
		name = fmt.Sprintf("role-%d", roleID)
	}
	u.Roles = append(u.Roles, domain.UserRole{
		UserID:     userID,
		RoleID:     roleID,
		RoleName:   name,
		AssignedAt: time.Now().UTC(),
	})
	return nil
}

func (r *stubUserRepo) RemoveRoleLink(_ context.Context, userID int64, roleID int32) error {
	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	kept := u.Roles[:0]
	for _, link := range u.Roles {
		if link.RoleID != roleID {
			kept = append(kept, link)
		}
	}
	u.Roles = kept
	return nil
}

func (r *stubUserRepo) RoleLinks(_ context.Context, userID int64) ([]domain.UserRole, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return append([]domain.UserRole(nil), u.Roles...), nil
}

func (r *stubUserRepo) HasRole(_ context.Context, userID int64, roleName string) (bool, error) {
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	return u.HasRole(roleName), nil
}

type stubRoleRepo struct {
	roles map[string]*domain.Role
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{roles: map[string]*domain.Role{}}
	_ = r.Ensure(context.Background(), names...)
	return r
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) Ensure(_ context.Context, names ...string) error {
	for _, name := range names {
		if _, ok := r.roles[name]; !ok {
			r.roles[name] = &domain.Role{ID: int32(len(r.roles) + 1), Name: name}
		}
	}
	return nil
}

// wire links the user repo's role-name lookup to this role repo, mirroring
// the join the real store performs.
func (r *stubRoleRepo) wire(users *stubUserRepo) {
	for _, role := range r.roles {
		users.roleNames[role.ID] = role.Name
	}
}

type stubSessionStore struct {
	sessions map[string]*domain.AuthContext
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: map[string]*domain.AuthContext{}}
}

func (s *stubSessionStore) Save(_ context.Context, sessionID string, auth *domain.AuthContext) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *auth
	s.sessions[sessionID] = &clone
	return nil
}

func (s *stubSessionStore) Find(_ context.Context, sessionID string) (*domain.AuthContext, error) {
	auth, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *auth
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

// fakeHasher is a deterministic stand-in for bcrypt; the real hasher has its
// own tests.
type fakeHasher struct {
	hashCalls int
}

func (h *fakeHasher) Hash(raw string) (string, error) {
	h.hashCalls++
	return "hashed:" + raw, nil
}

func (h *fakeHasher) Verify(raw, encoded string) bool {
	return encoded == "hashed:"+raw
}
