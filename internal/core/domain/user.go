package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is the identity aggregate. The store assigns ID; Email is unique
// case-insensitively across all users. PasswordHash is opaque and never
// serialised to clients.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	Roles        []UserRole `json:"-"`
}

// Role is long-lived reference data, never created by end-user flows.
type Role struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// UserRole links a User to a Role. The (UserID, RoleID) pair is the
// composite key; at most one link exists per pair. Links belong to the user
// aggregate and are removed with it.
type UserRole struct {
	UserID     int64     `json:"user_id"`
	RoleID     int32     `json:"role_id"`
	RoleName   string    `json:"role_name"`
	AssignedAt time.Time `json:"assigned_at"`
}

// RoleNames returns the user's role names, sorted for stable output.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, ur := range u.Roles {
		names = append(names, ur.RoleName)
	}
	sort.Strings(names)
	return names
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, ur := range u.Roles {
		if ur.RoleName == name {
			return true
		}
	}
	return false
}

// Identity is the external projection of a User: everything a client may
// see, excluding the password hash.
type Identity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity builds the external projection of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Roles:     u.RoleNames(),
		CreatedAt: u.CreatedAt,
	}
}

// AuthContext is the transient result of a successful login: the principal's
// email plus the role names held at authentication time. It is request-local
// and persisted only through the session store collaborator.
type AuthContext struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// HasRole reports whether the authenticated principal holds the named role.
func (a *AuthContext) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// NormalizeEmail canonicalises an email for storage and lookup: trimmed and
// case-folded. Uniqueness is always judged on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
