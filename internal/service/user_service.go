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

// UserService handles account listing and role administration.
type UserService struct {
	users      repository.UserRepository
	teams      repository.TeamRepository
	engine     *authz.Engine
	members    *authz.MembershipResolver
	dispatcher events.Dispatcher
}

// NewUserService creates the service.
func NewUserService(users repository.UserRepository, teams repository.TeamRepository, engine *authz.Engine, members *authz.MembershipResolver, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, teams: teams, engine: engine, members: members, dispatcher: dispatcher}
}

// ListUsers returns every account for admins.
func (s *UserService) ListUsers(ctx context.Context, principal authz.Principal) ([]domain.User, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.ViewAllUsers{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return users, nil
}

// GetUser returns one account. Managers may only read their own team
// members; the denial does not reveal whether the id exists.
func (s *UserService) GetUser(ctx context.Context, principal authz.Principal, userID string) (*domain.User, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.ViewUser{UserID: userID})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewStorageError(err)
	}
	return user, nil
}

// UpdateRole changes a user's role. A manager still leading a team
// cannot be demoted; a developer promoted off the developer role is
// detached from their team so membership never dangles.
func (s *UserService) UpdateRole(ctx context.Context, principal authz.Principal, userID string, role domain.Role) (*domain.User, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.UpdateUserRole{UserID: userID})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	if !role.Known() {
		return nil, apperrors.NewValidationError("role", "must be admin, manager or developer")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	if user.Role == role {
		return user, nil
	}

	if user.Role == domain.RoleManager {
		if _, err := s.teams.GetByManager(ctx, user.ID); err == nil {
			return nil, apperrors.NewConflict("user still manages a team", map[string]any{"user_id": user.ID})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStorageError(err)
		}
	}

	teamID := user.TeamID
	var vacatedManagerID string
	if role != domain.RoleDeveloper && teamID != nil {
		if team, err := s.teams.GetByID(ctx, *teamID); err == nil {
			vacatedManagerID = team.ManagerID
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStorageError(err)
		}
		teamID = nil
	}

	oldRole := user.Role
	updated, err := s.users.UpdateRole(ctx, user.ID, role, teamID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	s.members.Invalidate(ctx, vacatedManagerID)

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRoleChanged,
		SubjectID: updated.ID,
		ActorID:   principal.UserID,
		Timestamp: time.Now().UTC(),
		Payload:   events.UserRoleChangedPayload{OldRole: oldRole, NewRole: role},
	})
	return updated, nil
}
