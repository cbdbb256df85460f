package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/studybuddy/accounts-service/internal/api/metrics"
	"github.com/studybuddy/accounts-service/internal/core/ports"
)

// UserHandler exposes the admin-facing user management endpoints.
type UserHandler struct {
	users ports.UserService
	roles ports.RoleService
}

func NewUserHandler(users ports.UserService, roles ports.RoleService) *UserHandler {
	return &UserHandler{users: users, roles: roles}
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email,max=150"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,max=50"`
}

type rolesResponse struct {
	Roles []string `json:"roles"`
}

// List returns all users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.Identity
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	identities, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identities)
}

// Get returns a single user by id.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.Identity
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	identity, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// Update changes a user's name and/or email.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "User id"
// @Param        body  body      updateProfileRequest  true  "New profile"
// @Success      200   {object}  domain.Identity
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.users.UpdateProfile(c.Request().Context(), id, req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// ChangePassword verifies the current password and sets a new one.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Param        id    path  int                    true  "User id"
// @Param        body  body  changePasswordRequest  true  "Passwords"
// @Success      204
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.users.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a user and all of their role links.
//
// @Summary      Delete user
// @Tags         users
// @Param        id  path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRoles returns the role names held by a user.
//
// @Summary      List user roles
// @Tags         roles
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  rolesResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/roles [get]
func (h *UserHandler) ListRoles(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	roles, err := h.roles.List(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rolesResponse{Roles: roles})
}

// GrantRole links a role to a user. Granting an already-held role succeeds.
//
// @Summary      Grant role
// @Tags         roles
// @Accept       json
// @Param        id    path  int          true  "User id"
// @Param        body  body  roleRequest  true  "Role name"
// @Success      204
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/roles [post]
func (h *UserHandler) GrantRole(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.roles.Grant(c.Request().Context(), id, req.Role); err != nil {
		return err
	}

	metrics.RoleChangesTotal.WithLabelValues("grant").Inc()
	return c.NoContent(http.StatusNoContent)
}

// RevokeRole removes a role from a user. Revoking an absent role succeeds.
//
// @Summary      Revoke role
// @Tags         roles
// @Param        id    path  int     true  "User id"
// @Param        role  path  string  true  "Role name"
// @Success      204
// @Router       /users/{id}/roles/{role} [delete]
func (h *UserHandler) RevokeRole(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.roles.Revoke(c.Request().Context(), id, c.Param("role")); err != nil {
		return err
	}

	metrics.RoleChangesTotal.WithLabelValues("revoke").Inc()
	return c.NoContent(http.StatusNoContent)
}

func userID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
