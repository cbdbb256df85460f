package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

func newUserFixture(t *testing.T) (*UserService, int64, *stubUserRepo) {
	t.Helper()

	users := newStubUserRepo()
	roles := newStubRoleRepo(domain.RoleUser)
	roles.wire(users)
	hasher := &fakeHasher{}

	signup := NewSignupService(users, roles, hasher, domain.RoleUser, zerolog.Nop())
	identity, err := signup.Signup(context.Background(), "Alice", "alice@example.com", "Str0ngP@ss1")
	if err != nil {
		t.Fatalf("seed signup failed: %v", err)
	}

	return NewUserService(users, hasher, zerolog.Nop()), identity.ID, users
}

func TestUserService_Get(t *testing.T) {
	svc, id, _ := newUserFixture(t)

	identity, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if identity.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if len(identity.Roles) != 1 || identity.Roles[0] != domain.RoleUser {
		t.Fatalf("expected roles [%s], got %v", domain.RoleUser, identity.Roles)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	if _, err := svc.Get(context.Background(), 9999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, id, _ := newUserFixture(t)

	identity, err := svc.UpdateProfile(context.Background(), id, "Alice Cooper", "alice.cooper@example.com")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if identity.Name != "Alice Cooper" || identity.Email != "alice.cooper@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestUserService_UpdateProfile_SameEmailDifferentCase(t *testing.T) {
	svc, id, _ := newUserFixture(t)

	// Re-saving your own email in a different case is not a conflict.
	if _, err := svc.UpdateProfile(context.Background(), id, "Alice", "ALICE@example.com"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

func TestUserService_UpdateProfile_EmailConflict(t *testing.T) {
	svc, id, users := newUserFixture(t)

	roles := newStubRoleRepo(domain.RoleUser)
	roles.wire(users)
	signup := NewSignupService(users, roles, &fakeHasher{}, domain.RoleUser, zerolog.Nop())
	if _, err := signup.Signup(context.Background(), "Bob", "bob@example.com", "Str0ngP@ss1"); err != nil {
		t.Fatalf("seed signup failed: %v", err)
	}

	if _, err := svc.UpdateProfile(context.Background(), id, "Alice", "bob@example.com"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, id, users := newUserFixture(t)

	if err := svc.ChangePassword(context.Background(), id, "Str0ngP@ss1", "N3wStr0ng!Pass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if users.users[id].PasswordHash != "hashed:N3wStr0ng!Pass" {
		t.Fatalf("hash not updated: %s", users.users[id].PasswordHash)
	}
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	svc, id, _ := newUserFixture(t)

	err := svc.ChangePassword(context.Background(), id, "WrongPass1!", "N3wStr0ng!Pass")
	if _, ok := domain.IsValidationError(err); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserService_ChangePassword_WeakNew(t *testing.T) {
	svc, id, _ := newUserFixture(t)

	err := svc.ChangePassword(context.Background(), id, "Str0ngP@ss1", "weak")
	ve, ok := domain.IsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, found := ve.Fields["new_password"]; !found {
		t.Fatalf("expected new_password field in %v", ve.Fields)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, id, users := newUserFixture(t)

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := users.users[id]; ok {
		t.Fatalf("user still present after delete")
	}
	if err := svc.Delete(context.Background(), id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_FindByName(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	identity, err := svc.FindByName(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("find by name failed: %v", err)
	}
	if identity.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if _, err := svc.FindByName(context.Background(), "  "); err == nil {
		t.Fatalf("expected validation error for blank name")
	}
	if _, err := svc.FindByName(context.Background(), "Nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	svc, _, users := newUserFixture(t)

	roles := newStubRoleRepo(domain.RoleUser)
	roles.wire(users)
	signup := NewSignupService(users, roles, &fakeHasher{}, domain.RoleUser, zerolog.Nop())
	if _, err := signup.Signup(context.Background(), "Bob", "bob@example.com", "Str0ngP@ss1"); err != nil {
		t.Fatalf("seed signup failed: %v", err)
	}

	identities, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(identities) != 2 {
		t.Fatalf("expected 2 users, got %d", len(identities))
	}
}
