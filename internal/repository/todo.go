package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rohitmp45/ai-interview/internal/domain"
)

const todoColumns = `id, user_id, title, description, completed, scheduled_at, notified, created_at, updated_at`

// TodoRepository handles todo data access operations. Every query is scoped
// by user_id so a session can only ever touch its own rows.
type TodoRepository struct {
	db *sqlx.DB
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// ListByUser returns the user's todos, newest first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	err := r.db.SelectContext(ctx, &todos,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Create inserts a todo for the user.
func (r *TodoRepository) Create(ctx context.Context, userID int64, title string, description *string, scheduledAt *time.Time) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO todos (user_id, title, description, scheduled_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+todoColumns,
		userID, title, description, scheduledAt,
	).StructScan(&todo)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &todo, nil
}

// Update applies a partial update to the user's todo.
func (r *TodoRepository) Update(ctx context.Context, userID, id int64, upd domain.TodoUpdate) (*domain.Todo, error) {
	var todo domain.Todo
	var scheduledAt any
	switch {
	case upd.ClearSchedule:
		scheduledAt = nil
	case upd.ScheduledAt != nil:
		scheduledAt = *upd.ScheduledAt
	}

	err := r.db.QueryRowxContext(ctx,
		`UPDATE todos
		 SET title        = COALESCE($3, title),
		     description  = COALESCE($4, description),
		     completed    = COALESCE($5, completed),
		     scheduled_at = CASE WHEN $6::bool THEN $7 ELSE scheduled_at END,
		     notified     = COALESCE($8, notified),
		     updated_at   = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+todoColumns,
		id, userID, upd.Title, upd.Description, upd.Completed,
		upd.ScheduledAt != nil || upd.ClearSchedule, scheduledAt, upd.Notified,
	).StructScan(&todo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}
	return &todo, nil
}

// Delete removes the user's todo.
func (r *TodoRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkDue returns the user's due, un-notified todos and flags them notified
// in the same statement, so each reminder is delivered at most once.
func (r *TodoRepository) MarkDue(ctx context.Context, userID int64, now time.Time) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	err := r.db.SelectContext(ctx, &todos,
		`UPDATE todos
		 SET notified = TRUE, updated_at = NOW()
		 WHERE user_id = $1
		   AND notified = FALSE
		   AND completed = FALSE
		   AND scheduled_at IS NOT NULL
		   AND scheduled_at <= $2
		 RETURNING `+todoColumns,
		userID, now)
	if err != nil {
		return nil, fmt.Errorf("mark due todos: %w", err)
	}
	return todos, nil
}
