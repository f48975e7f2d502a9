package domain

import "time"

// Todo represents a task owned by a user. ScheduledAt is the optional due
// time; Notified records that the due reminder for it has already been
// delivered.
type Todo struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Completed   bool       `json:"completed" db:"completed"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	Notified    bool       `json:"notified" db:"notified"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TodoUpdate carries a partial update; nil fields are left untouched.
type TodoUpdate struct {
	Title         *string
	Description   *string
	Completed     *bool
	ScheduledAt   *time.Time
	ClearSchedule bool
	Notified      *bool
}
