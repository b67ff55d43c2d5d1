package events

import (
	"time"

	"github.com/spec-kit/project-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskAssigned      EventType = "task_assigned"
	EventTaskStatusChanged EventType = "task_status_changed"
	EventTimeLogged        EventType = "time_logged"
	EventTeamCreated       EventType = "team_created"
	EventUserRoleChanged   EventType = "user_role_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TaskAssignedPayload payload.
type TaskAssignedPayload struct {
	AssigneeID string            `json:"assignee_id"`
	ProjectID  *string           `json:"project_id,omitempty"`
	Status     domain.TaskStatus `json:"status"`
	Title      string            `json:"title"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// TimeLoggedPayload payload.
type TimeLoggedPayload struct {
	TaskID string  `json:"task_id"`
	Hours  float64 `json:"hours"`
}

// TeamCreatedPayload payload.
type TeamCreatedPayload struct {
	Name      string `json:"name"`
	ManagerID string `json:"manager_id"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}
