package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rohitmp45/ai-interview/internal/domain"
)

const userColumns = `id, email, password_hash, google_id, name, avatar_url, created_at, updated_at`

// UserRepository handles user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by their lowercased email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Create inserts a password-signup user.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING `+userColumns,
		email, passwordHash,
	).StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// UpsertGoogle creates the user on first Google login, or fills in only the
// missing google_id/name/avatar fields on later logins. Existing non-empty
// values are never overwritten.
func (r *UserRepository) UpsertGoogle(ctx context.Context, profile domain.GoogleProfile) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, google_id, name, avatar_url)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 ON CONFLICT (email)
		 DO UPDATE SET google_id  = COALESCE(users.google_id, EXCLUDED.google_id),
		               name       = CASE WHEN users.name = '' THEN EXCLUDED.name ELSE users.name END,
		               avatar_url = COALESCE(users.avatar_url, EXCLUDED.avatar_url),
		               updated_at = NOW()
		 RETURNING `+userColumns,
		profile.Email, profile.Sub, profile.Name, profile.AvatarURL,
	).StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("upsert google user: %w", err)
	}
	return &user, nil
}
