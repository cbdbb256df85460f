package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_ValidationError(t *testing.T) {
	err := domain.NewValidationError("email", "must be a valid email address")
	code, body := renderError(t, err)

	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Fields["email"] != "must be a valid email address" {
		t.Fatalf("expected field detail, got %+v", body)
	}
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err     error
		code    int
		message string
	}{
		{domain.ErrEmailTaken, http.StatusConflict, "email already in use"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrSessionNotFound, http.StatusUnauthorized, "not authenticated"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrRoleNotFound, http.StatusNotFound, "role not found"},
		{domain.ErrDefaultRoleMissing, http.StatusInternalServerError, "internal error"},
	}

	for _, tc := range cases {
		code, body := renderError(t, tc.err)
		if code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if body.Error != tc.message {
			t.Errorf("%v: expected %q, got %q", tc.err, tc.message, body.Error)
		}
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	err := errors.Join(errors.New("create user"), domain.ErrEmailTaken)
	code, _ := renderError(t, err)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped error, got %d", code)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "malformed request body"))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Error != "malformed request body" {
		t.Fatalf("unexpected message: %q", body.Error)
	}
}

func TestErrorHandler_UnexpectedError(t *testing.T) {
	code, body := renderError(t, errors.New("connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "internal error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
}
