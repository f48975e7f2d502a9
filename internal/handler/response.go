package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rohitmp45/ai-interview/internal/domain"
)

// ErrorBody is the JSON error shape returned by every failing endpoint.
// Details carries the raw upstream provider body when one is available.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HTTPErrorHandler is the global error handler: it maps domain errors to a
// status and JSON body so no failure escapes as a crashed request.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := mapError(err)
	if jsonErr := c.JSON(status, body); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

func mapError(err error) (int, ErrorBody) {
	// echo's own HTTP errors (404, 405, handler-raised messages)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, ErrorBody{Error: msg}
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		return http.StatusBadRequest, ErrorBody{
			Error:   upstreamTitle(upstreamErr.Kind),
			Details: upstreamErr.Details,
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorBody{Error: "Invalid credentials"}
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest, ErrorBody{Error: "User already exists"}
	case errors.Is(err, domain.ErrMissingCode):
		return http.StatusBadRequest, ErrorBody{Error: "Missing code"}
	case errors.Is(err, domain.ErrMissingEmail):
		return http.StatusBadRequest, ErrorBody{Error: "Email not found in Google profile"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorBody{Error: "Unauthorized"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Error: "Resource not found"}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorBody{Error: "Invalid request body"}
	default:
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return http.StatusBadRequest, ErrorBody{Error: validationErr.Error()}
		}

		slog.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, ErrorBody{Error: "Internal Server Error"}
	}
}

func upstreamTitle(kind error) string {
	switch kind {
	case domain.ErrTokenExchange:
		return "Token exchange failed"
	case domain.ErrUserInfoFetch:
		return "Failed to fetch user info"
	default:
		return "Upstream failure"
	}
}
