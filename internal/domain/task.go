package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether the status is a recognized value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is permitted.
// todo and in_progress move freely between each other and into done;
// done is terminal.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == TaskStatusDone {
		return false
	}
	return s != next
}

// Task is the aggregate for a unit of work assigned to a user.
type Task struct {
	ID          string
	Title       string
	Description string
	ProjectID   *string
	AssigneeID  string
	Status      TaskStatus
	DueDate     *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
