// Package session issues and verifies the stateless session credential
// carried in the "token" cookie. Validity is determined entirely by signature
// and expiry; there is no server-side session record.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rohitmp45/ai-interview/internal/domain"
)

// CookieName is the cookie carrying the session credential.
const CookieName = "token"

// TTL is the fixed lifetime of a session credential.
const TTL = 24 * time.Hour

// Claims is the payload embedded in a session credential.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session credentials and writes them as cookies.
type Manager struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// NewManager creates a Manager. secure controls the cookie's Secure attribute
// and should be true when serving over TLS.
func NewManager(secret string, secure bool) *Manager {
	return NewManagerAt(secret, secure, time.Now)
}

// NewManagerAt is NewManager with an injected clock.
func NewManagerAt(secret string, secure bool, now func() time.Time) *Manager {
	return &Manager{secret: []byte(secret), secure: secure, now: now}
}

// Issue signs a credential for the given user, valid for TTL.
func (m *Manager) Issue(userID int64, email string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a credential and returns its claims. Any failure (bad
// signature, expiry, malformed token) collapses to ErrUnauthenticated.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// FromRequest reads and verifies the session cookie. Missing cookie, invalid
// signature and expiry are all reported as ErrUnauthenticated.
func (m *Manager) FromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, domain.ErrUnauthenticated
	}
	return m.Verify(cookie.Value)
}

// SetCookie writes the session cookie with the credential.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		MaxAge:   int(TTL / time.Second),
	})
}

// ClearCookie overwrites the session cookie with an empty, immediately
// expiring value. Tokens copied out of the cookie jar remain valid until
// their natural expiry.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		MaxAge:   -1,
	})
}
