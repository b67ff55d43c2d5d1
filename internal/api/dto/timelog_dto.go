package dto

import (
	"time"

	"github.com/spec-kit/project-service/internal/repository"
)

// TimeLogCreateRequest payload for logging time against a task.
type TimeLogCreateRequest struct {
	Task        string  `json:"task"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

// TimeLogResponse is the wire shape for a time log.
type TimeLogResponse struct {
	ID          string    `json:"id"`
	Task        string    `json:"task"`
	TaskTitle   string    `json:"task_title"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTimeLogResponse maps a log joined with its task title.
func NewTimeLogResponse(log repository.TimeLogWithTask) TimeLogResponse {
	return TimeLogResponse{
		ID:          log.ID,
		Task:        log.TaskID,
		TaskTitle:   log.TaskTitle,
		Hours:       log.Hours,
		Description: log.Description,
		CreatedAt:   log.CreatedAt,
	}
}
