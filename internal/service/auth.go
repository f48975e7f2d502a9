package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rohitmp45/ai-interview/internal/domain"
	"github.com/rohitmp45/ai-interview/internal/oauth"
	"github.com/rohitmp45/ai-interview/internal/session"
)

// bcryptCost matches the cost the accounts were originally hashed with.
const bcryptCost = 10

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	UpsertGoogle(ctx context.Context, profile domain.GoogleProfile) (*domain.User, error)
}

// AuthService handles signup, password login, Google login and session lookup.
type AuthService struct {
	users    UserStore
	sessions *session.Manager
	google   *oauth.Google
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, sessions *session.Manager, google *oauth.Google) *AuthService {
	return &AuthService{users: users, sessions: sessions, google: google}
}

// Google exposes the OAuth authenticator for the redirect handler.
func (s *AuthService) Google() *oauth.Google {
	return s.google
}

// Signup registers a new password user. The email is stored lowercased and
// must not already be registered. Does not log the user in.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, email, string(hash))
}

// Login validates the credentials and issues a session credential. Unknown
// email and wrong password both return ErrInvalidCredentials so responses
// cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GoogleCallback exchanges the authorization code, upserts the user and
// issues a session credential. The credential is issued only after the user
// row is persisted, so a failed upsert never leaves a session behind.
func (s *AuthService) GoogleCallback(ctx context.Context, baseURL, code string) (*domain.User, string, error) {
	profile, err := s.google.Exchange(ctx, baseURL, code)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.UpsertGoogle(ctx, *profile)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UserFromClaims re-fetches the user behind verified session claims, so a
// deleted account is unauthenticated immediately despite the stateless token.
func (s *AuthService) UserFromClaims(ctx context.Context, claims *session.Claims) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
