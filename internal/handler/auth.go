package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rohitmp45/ai-interview/internal/domain"
	"github.com/rohitmp45/ai-interview/internal/oauth"
	"github.com/rohitmp45/ai-interview/internal/service"
	"github.com/rohitmp45/ai-interview/internal/session"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new password account. It does not log the user in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.auth.Signup(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "User created",
		"userId":  user.ID,
	})
}

// Login validates credentials and sets the session cookie. The token is also
// returned in the body for clients not relying on the cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.sessions.SetCookie(c.Response(), token)

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// Logout overwrites the session cookie with an immediately expiring value.
// There is no server-side revocation; a copied token stays valid until expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.ClearCookie(c.Response())
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// Me reports the session state. It never fails: missing, invalid and expired
// cookies all yield authenticated:false.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := h.sessions.FromRequest(c.Request())
	if err != nil {
		return c.JSON(http.StatusOK, map[string]any{"authenticated": false})
	}

	user, err := h.auth.UserFromClaims(c.Request().Context(), claims)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]any{"authenticated": false})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          user.Public(),
	})
}

// GoogleRedirect sends the browser to Google's consent page with the
// round-trip state embedding where to land after login.
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	google := h.auth.Google()
	if !google.Configured() {
		return echo.NewHTTPError(http.StatusInternalServerError, "Missing GOOGLE_CLIENT_ID")
	}

	baseURL := oauth.BaseURL(c.Request())

	origin := c.QueryParam("origin")
	if origin == "" {
		origin = baseURL
	}
	returnTo := c.QueryParam("return_to")
	if returnTo == "" {
		returnTo = oauth.DefaultReturnTo
	}

	state := oauth.State{Origin: origin, ReturnTo: returnTo}
	return c.Redirect(http.StatusFound, google.AuthCodeURL(baseURL, state))
}

// GoogleCallback finishes the flow: exchanges the code, upserts the user,
// sets the session cookie and redirects to the validated origin.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return domain.ErrMissingCode
	}

	state := oauth.DecodeState(c.QueryParam("state"))
	baseURL := oauth.BaseURL(c.Request())

	_, token, err := h.auth.GoogleCallback(c.Request().Context(), baseURL, code)
	if err != nil {
		return err
	}

	h.sessions.SetCookie(c.Response(), token)
	return c.Redirect(http.StatusFound, state.RedirectTarget(baseURL))
}
