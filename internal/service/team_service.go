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

// TeamService handles team creation, membership assignment and
// manager team views.
type TeamService struct {
	teams      repository.TeamRepository
	users      repository.UserRepository
	engine     *authz.Engine
	members    *authz.MembershipResolver
	dispatcher events.Dispatcher
}

// NewTeamService creates the service.
func NewTeamService(teams repository.TeamRepository, users repository.UserRepository, engine *authz.Engine, members *authz.MembershipResolver, dispatcher events.Dispatcher) *TeamService {
	return &TeamService{teams: teams, users: users, engine: engine, members: members, dispatcher: dispatcher}
}

// ListTeams returns every team for admins.
func (s *TeamService) ListTeams(ctx context.Context, principal authz.Principal) ([]domain.Team, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.ViewAllTeams{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return teams, nil
}

// CreateTeam creates a team led by an existing manager. One team per
// manager is a storage constraint; violating it is a conflict.
func (s *TeamService) CreateTeam(ctx context.Context, principal authz.Principal, name, managerID string) (*domain.Team, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.CreateTeam{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "required")
	}

	manager, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("manager", map[string]any{"user_id": managerID})
		}
		return nil, apperrors.NewStorageError(err)
	}
	if manager.Role != domain.RoleManager {
		return nil, apperrors.NewValidationError("manager", "user must hold the manager role")
	}

	team := &domain.Team{Name: name, ManagerID: manager.ID}
	if err := s.teams.Create(ctx, team); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("team name taken or manager already leads a team", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	s.members.Invalidate(ctx, manager.ID)

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTeamCreated,
		SubjectID: team.ID,
		ActorID:   principal.UserID,
		Timestamp: time.Now().UTC(),
		Payload:   events.TeamCreatedPayload{Name: team.Name, ManagerID: team.ManagerID},
	})
	return team, nil
}

// AssignUserToTeam places a developer on a team, moving them if they
// already belong to another one.
func (s *TeamService) AssignUserToTeam(ctx context.Context, principal authz.Principal, userID, teamID string) (*domain.User, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.AssignUserToTeam{UserID: userID})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewStorageError(err)
	}
	if user.Role != domain.RoleDeveloper {
		return nil, apperrors.NewValidationError("user", "only developers can join a team")
	}

	// moving between teams vacates the old roster
	if user.TeamID != nil && *user.TeamID != team.ID {
		if oldTeam, err := s.teams.GetByID(ctx, *user.TeamID); err == nil {
			defer s.members.Invalidate(ctx, oldTeam.ManagerID)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStorageError(err)
		}
	}

	updated, err := s.users.UpdateTeam(ctx, user.ID, &team.ID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	s.members.Invalidate(ctx, team.ManagerID)
	return updated, nil
}

// ManagerTeam returns the members of the principal's own team, empty
// when the manager leads no team yet.
func (s *TeamService) ManagerTeam(ctx context.Context, principal authz.Principal) ([]domain.User, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.ViewOwnTeam{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	managerID := principal.UserID
	if decision.Scope != nil && decision.Scope.ManagerID != "" {
		managerID = decision.Scope.ManagerID
	}

	members, err := s.members.Members(ctx, managerID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return members, nil
}
