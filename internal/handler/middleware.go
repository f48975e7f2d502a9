package handler

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rohitmp45/ai-interview/internal/domain"
	"github.com/rohitmp45/ai-interview/internal/service"
	"github.com/rohitmp45/ai-interview/internal/session"
)

const contextKeyUser = "current_user"

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	}
}

// SessionAuth validates the session cookie, re-fetches the user row and
// injects it into the echo context. Missing cookie, bad signature and expiry
// all fail closed as a single 401.
func SessionAuth(sessions *session.Manager, auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := sessions.FromRequest(c.Request())
			if err != nil {
				return domain.ErrUnauthenticated
			}

			user, err := auth.UserFromClaims(c.Request().Context(), claims)
			if err != nil {
				return domain.ErrUnauthenticated
			}

			c.Set(contextKeyUser, user)
			return next(c)
		}
	}
}

// CurrentUser extracts the authenticated user from the echo context.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextKeyUser).(*domain.User)
	return user, ok
}
