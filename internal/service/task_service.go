package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/authz"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// TaskService handles task listing and status updates.
type TaskService struct {
	tasks      repository.TaskRepository
	engine     *authz.Engine
	dispatcher events.Dispatcher
}

// NewTaskService creates the service.
func NewTaskService(tasks repository.TaskRepository, engine *authz.Engine, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{tasks: tasks, engine: engine, dispatcher: dispatcher}
}

// ListTasks returns the tasks visible to the principal. Developers see
// only their own assignments; the narrowing comes from the decision
// scope, not handler logic.
func (s *TaskService) ListTasks(ctx context.Context, principal authz.Principal) ([]domain.Task, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.ViewAllTasks{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	var tasks []domain.Task
	if decision.Scope != nil && decision.Scope.AssigneeID != "" {
		tasks, err = s.tasks.ListByAssignee(ctx, decision.Scope.AssigneeID)
	} else {
		tasks, err = s.tasks.List(ctx)
	}
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return tasks, nil
}

// UpdateStatus moves a task to a new status. Done tasks stay done.
func (s *TaskService) UpdateStatus(ctx context.Context, principal authz.Principal, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status", "must be todo, in_progress or done")
	}

	decision, err := s.engine.Decide(ctx, principal, authz.UpdateTaskStatus{TaskID: taskID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	if task.Status == status {
		return task, nil
	}
	if !task.Status.CanTransitionTo(status) {
		return nil, apperrors.NewValidationError("status", "invalid transition from "+string(task.Status))
	}

	updated, err := s.tasks.UpdateStatus(ctx, taskID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTaskStatusChanged,
		SubjectID: updated.ID,
		ActorID:   principal.UserID,
		Timestamp: time.Now().UTC(),
		Payload:   events.TaskStatusChangedPayload{OldStatus: task.Status, NewStatus: status},
	})
	return updated, nil
}
