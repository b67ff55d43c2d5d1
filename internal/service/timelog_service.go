package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/authz"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// TimeLogService handles time logging with the one-log-per-task-and-
// author invariant.
type TimeLogService struct {
	timeLogs   repository.TimeLogRepository
	tasks      repository.TaskRepository
	engine     *authz.Engine
	dispatcher events.Dispatcher
}

// NewTimeLogService creates the service.
func NewTimeLogService(timeLogs repository.TimeLogRepository, tasks repository.TaskRepository, engine *authz.Engine, dispatcher events.Dispatcher) *TimeLogService {
	return &TimeLogService{timeLogs: timeLogs, tasks: tasks, engine: engine, dispatcher: dispatcher}
}

// ListLogs returns the principal's own time logs. The client derives
// its "already logged" flags from this list, so it is always
// author-scoped.
func (s *TimeLogService) ListLogs(ctx context.Context, principal authz.Principal) ([]repository.TimeLogWithTask, error) {
	logs, err := s.timeLogs.ListByAuthor(ctx, principal.UserID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return logs, nil
}

// LogTime records hours against a task. The engine rejects a known
// duplicate up front; the unique index closes the race two concurrent
// submissions would otherwise win together, and both paths surface as
// the same conflict.
func (s *TimeLogService) LogTime(ctx context.Context, principal authz.Principal, taskID string, hours float64, description string) (*domain.TimeLog, error) {
	if hours < domain.MinLogHours {
		return nil, apperrors.NewValidationError("hours", "must be at least 0.5")
	}
	if math.Mod(hours*2, 1) != 0 {
		return nil, apperrors.NewValidationError("hours", "must be a multiple of 0.5")
	}

	decision, err := s.engine.Decide(ctx, principal, authz.LogTime{TaskID: taskID})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		if decision.Reason == apperrors.ReasonAlreadyLogged {
			return nil, apperrors.NewConflict(apperrors.ReasonAlreadyLogged, map[string]any{"task_id": taskID})
		}
		return nil, decision.Err()
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	log := &domain.TimeLog{
		TaskID:      taskID,
		AuthorID:    principal.UserID,
		Hours:       hours,
		Description: description,
	}
	if err := s.timeLogs.Create(ctx, log); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict(apperrors.ReasonAlreadyLogged, map[string]any{"task_id": taskID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTimeLogged,
		SubjectID: log.ID,
		ActorID:   principal.UserID,
		Timestamp: time.Now().UTC(),
		Payload:   events.TimeLoggedPayload{TaskID: taskID, Hours: hours},
	})
	return log, nil
}
