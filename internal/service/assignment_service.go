package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/authz"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// Accepted layouts for task due dates; the frontend submits the
// datetime-local format.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// TaskDraft describes a task to be created for a target user.
type TaskDraft struct {
	Title       string
	Description string
	ProjectID   *string
	DueDate     string
	Status      domain.TaskStatus
}

// AssignmentService runs the team-scoped task assignment workflow:
// the authorization decision, draft validation, target resolution and
// the task write compose into one all-or-nothing operation.
type AssignmentService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	projects   repository.ProjectRepository
	engine     *authz.Engine
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TaskRepo    repository.TaskRepository
	UserRepo    repository.UserRepository
	ProjectRepo repository.ProjectRepository
	Engine      *authz.Engine
	Dispatcher  events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tasks:      deps.TaskRepo,
		users:      deps.UserRepo,
		projects:   deps.ProjectRepo,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
	}
}

// AssignTask creates a task bound to targetUserID.
//
// The authorization decision runs before any existence check, so a
// manager probing for ids outside their team gets the same
// not_team_member denial whether or not the user exists.
func (s *AssignmentService) AssignTask(ctx context.Context, principal authz.Principal, targetUserID string, draft TaskDraft) (*domain.Task, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.AssignTask{TargetUserID: targetUserID})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	dueDate, err := s.validateDraft(ctx, &draft)
	if err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("target user", map[string]any{"user_id": targetUserID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	task := &domain.Task{
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		ProjectID:   draft.ProjectID,
		AssigneeID:  target.ID,
		Status:      draft.Status,
		DueDate:     dueDate,
		CreatedBy:   principal.UserID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTaskAssigned,
		SubjectID: task.ID,
		ActorID:   principal.UserID,
		Timestamp: time.Now().UTC(),
		Payload: events.TaskAssignedPayload{
			AssigneeID: task.AssigneeID,
			ProjectID:  task.ProjectID,
			Status:     task.Status,
			Title:      task.Title,
		},
	})
	return task, nil
}

func (s *AssignmentService) validateDraft(ctx context.Context, draft *TaskDraft) (*time.Time, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, apperrors.NewValidationError("title", "required")
	}

	if draft.Status == "" {
		draft.Status = domain.TaskStatusTodo
	}
	if !draft.Status.Valid() {
		return nil, apperrors.NewValidationError("status", "must be todo, in_progress or done")
	}

	if draft.ProjectID != nil && *draft.ProjectID != "" {
		if _, err := s.projects.GetByID(ctx, *draft.ProjectID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("project", map[string]any{"project_id": *draft.ProjectID})
			}
			return nil, apperrors.NewStorageError(err)
		}
	} else {
		draft.ProjectID = nil
	}

	if draft.DueDate == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, draft.DueDate); err == nil {
			return &parsed, nil
		}
	}
	return nil, apperrors.NewValidationError("due_date", "not a valid date")
}
