package service

import (
	"context"
	"time"

	"github.com/rohitmp45/ai-interview/internal/domain"
)

// TodoStore defines the todo data access interface consumed by TodoService.
type TodoStore interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error)
	Create(ctx context.Context, userID int64, title string, description *string, scheduledAt *time.Time) (*domain.Todo, error)
	Update(ctx context.Context, userID, id int64, upd domain.TodoUpdate) (*domain.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
	MarkDue(ctx context.Context, userID int64, now time.Time) ([]domain.Todo, error)
}

// TodoService handles todo operations for the authenticated user.
type TodoService struct {
	todos TodoStore
	now   func() time.Time
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos TodoStore) *TodoService {
	return &TodoService{todos: todos, now: time.Now}
}

// List returns the user's todos, newest first.
func (s *TodoService) List(ctx context.Context, userID int64) ([]domain.Todo, error) {
	return s.todos.ListByUser(ctx, userID)
}

// Create adds a todo with an optional description and due time.
func (s *TodoService) Create(ctx context.Context, userID int64, title string, description *string, scheduledAt *time.Time) (*domain.Todo, error) {
	return s.todos.Create(ctx, userID, title, description, scheduledAt)
}

// Update applies a partial update to the user's todo.
func (s *TodoService) Update(ctx context.Context, userID, id int64, upd domain.TodoUpdate) (*domain.Todo, error) {
	return s.todos.Update(ctx, userID, id, upd)
}

// Delete removes the user's todo.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	return s.todos.Delete(ctx, userID, id)
}

// Due returns the user's todos whose due time has passed and which have not
// been notified yet, marking them notified in the same operation.
func (s *TodoService) Due(ctx context.Context, userID int64) ([]domain.Todo, error) {
	return s.todos.MarkDue(ctx, userID, s.now())
}
