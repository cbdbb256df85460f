package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studybuddy/accounts-service/internal/core/domain"
	"github.com/studybuddy/accounts-service/internal/core/ports"
)

// SessionCookie is the cookie carrying the session id.
const SessionCookie = "sb_session"

// Session resolves the session cookie against the session store and injects
// the authenticated principal into the request context. Requests without a
// valid session are rejected with 401.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			authCtx, err := auth.Session(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
				}
				return err
			}

			c.Set("session_id", cookie.Value)
			c.Set("email", authCtx.Email)
			c.Set("roles", authCtx.Roles)

			return next(c)
		}
	}
}
