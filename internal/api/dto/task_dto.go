package dto

import (
	"time"

	"github.com/spec-kit/project-service/internal/domain"
)

// TaskCreateRequest payload for assigning a task to a user.
type TaskCreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Project     *string `json:"project"`
	DueDate     string  `json:"due_date"`
	Status      string  `json:"status"`
	AssignedTo  string  `json:"assigned_to"`
}

// TaskStatusRequest payload for status updates.
type TaskStatusRequest struct {
	Status string `json:"status"`
}

// TaskResponse is the wire shape for a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Project     *string    `json:"project"`
	AssignedTo  string     `json:"assigned_to"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Project:     task.ProjectID,
		AssignedTo:  task.AssigneeID,
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
	}
}
