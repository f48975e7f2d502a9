package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rohitmp45/ai-interview/internal/domain"
	"github.com/rohitmp45/ai-interview/internal/service"
)

// TodoHandler handles the todo CRUD and due-scan endpoints. All routes are
// mounted behind SessionAuth.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// List returns the user's todos, newest first.
func (h *TodoHandler) List(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	todos, err := h.todos.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"todos": todos})
}

type createTodoRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// Create adds a todo.
func (h *TodoHandler) Create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title is required")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	todo, err := h.todos.Create(c.Request().Context(), user.ID, req.Title, req.Description, req.ScheduledAt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"todo": todo})
}

type updateTodoRequest struct {
	ID          int64   `json:"id" validate:"required"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	// Raw so an explicit null (clear the due time) is distinguishable from
	// an absent field (leave it alone).
	ScheduledAt json.RawMessage `json:"scheduled_at"`
	Notified    *bool           `json:"notified"`
}

// Update applies a partial update; absent fields are left untouched and an
// explicit null scheduled_at clears the due time.
func (h *TodoHandler) Update(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.ID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Todo ID is required")
	}

	upd := domain.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Notified:    req.Notified,
	}
	if len(req.ScheduledAt) > 0 {
		if string(req.ScheduledAt) == "null" {
			upd.ClearSchedule = true
		} else {
			var ts time.Time
			if err := json.Unmarshal(req.ScheduledAt, &ts); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid scheduled_at")
			}
			upd.ScheduledAt = &ts
		}
	}

	todo, err := h.todos.Update(c.Request().Context(), user.ID, req.ID, upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"todo": todo})
}

// Delete removes the user's todo identified by the id query parameter.
func (h *TodoHandler) Delete(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	id, err := strconv.ParseInt(c.QueryParam("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Todo ID is required")
	}

	if err := h.todos.Delete(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Due returns due, un-notified todos, marking them notified so each reminder
// is delivered once.
func (h *TodoHandler) Due(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	todos, err := h.todos.Due(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"todos": todos})
}
