package authz

import (
	"context"
	"fmt"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// Membership answers team membership questions for the engine.
type Membership interface {
	IsMember(ctx context.Context, managerID, userID string) (bool, error)
}

// Engine is the central policy decision point. It holds no state of
// its own: every decision is a pure function of the store snapshot
// read during the call. Wrong roles produce denials, never errors;
// errors mean the store itself failed.
type Engine struct {
	tasks    repository.TaskRepository
	timeLogs repository.TimeLogRepository
	members  Membership
}

// NewEngine constructs the engine.
func NewEngine(tasks repository.TaskRepository, timeLogs repository.TimeLogRepository, members Membership) *Engine {
	return &Engine{tasks: tasks, timeLogs: timeLogs, members: members}
}

// Decide evaluates one action for one principal.
//
// A principal with an unrecognized or empty role is denied everything
// except the public project listing. The client may render whatever
// fallback view it likes for such users; no grant leaks from that.
func (e *Engine) Decide(ctx context.Context, p Principal, action Action) (Decision, error) {
	if _, ok := action.(ViewAllProjects); ok {
		return allow(), nil
	}

	if !p.Role.Known() {
		return deny(apperrors.ReasonRoleMismatch), nil
	}

	switch a := action.(type) {
	case CreateOrEditProject:
		return e.decideAdminOnly(p), nil

	case ViewAllTasks:
		if p.Role == domain.RoleDeveloper {
			return allowScoped(Scope{AssigneeID: p.UserID}), nil
		}
		return allow(), nil

	case UpdateTaskStatus:
		return e.decideUpdateTaskStatus(ctx, p, a)

	case ViewAllUsers:
		return e.decideAdminOnly(p), nil

	case ViewUser:
		return e.decideViewUser(ctx, p, a)

	case ViewAllTeams:
		return e.decideAdminOnly(p), nil

	case UpdateUserRole:
		return e.decideAdminOnly(p), nil

	case ViewOwnTeam:
		if p.Role != domain.RoleManager {
			return deny(apperrors.ReasonNotAuthorized), nil
		}
		return allowScoped(Scope{ManagerID: p.UserID}), nil

	case CreateTeam:
		return e.decideAdminOnly(p), nil

	case AssignUserToTeam:
		return e.decideAdminOnly(p), nil

	case AssignTask:
		return e.decideAssignTask(ctx, p, a)

	case LogTime:
		return e.decideLogTime(ctx, p, a)

	default:
		return Decision{}, fmt.Errorf("unknown action %q", action.Name())
	}
}

func (e *Engine) decideAdminOnly(p Principal) Decision {
	if p.Role == domain.RoleAdmin {
		return allow()
	}
	return deny(apperrors.ReasonNotAuthorized)
}

func (e *Engine) decideViewUser(ctx context.Context, p Principal, a ViewUser) (Decision, error) {
	if p.UserID == a.UserID || p.Role == domain.RoleAdmin {
		return allow(), nil
	}
	if p.Role == domain.RoleManager {
		member, err := e.members.IsMember(ctx, p.UserID, a.UserID)
		if err != nil {
			return Decision{}, err
		}
		if member {
			return allow(), nil
		}
		return deny(apperrors.ReasonNotTeamMember), nil
	}
	return deny(apperrors.ReasonNotAuthorized), nil
}

func (e *Engine) decideUpdateTaskStatus(ctx context.Context, p Principal, a UpdateTaskStatus) (Decision, error) {
	if p.Role == domain.RoleAdmin {
		return allow(), nil
	}

	task, err := e.tasks.GetByID(ctx, a.TaskID)
	if err != nil {
		return Decision{}, err
	}

	switch p.Role {
	case domain.RoleManager:
		member, err := e.members.IsMember(ctx, p.UserID, task.AssigneeID)
		if err != nil {
			return Decision{}, err
		}
		if !member {
			return deny(apperrors.ReasonNotTeamMember), nil
		}
		return allow(), nil
	case domain.RoleDeveloper:
		if task.AssigneeID != p.UserID {
			return deny(apperrors.ReasonNotAuthorized), nil
		}
		return allow(), nil
	}
	return deny(apperrors.ReasonNotAuthorized), nil
}

func (e *Engine) decideAssignTask(ctx context.Context, p Principal, a AssignTask) (Decision, error) {
	switch p.Role {
	case domain.RoleAdmin:
		return allow(), nil
	case domain.RoleManager:
		member, err := e.members.IsMember(ctx, p.UserID, a.TargetUserID)
		if err != nil {
			return Decision{}, err
		}
		if !member {
			return deny(apperrors.ReasonNotTeamMember), nil
		}
		return allow(), nil
	}
	return deny(apperrors.ReasonNotAuthorized), nil
}

func (e *Engine) decideLogTime(ctx context.Context, p Principal, a LogTime) (Decision, error) {
	exists, err := e.timeLogs.ExistsByTaskAndAuthor(ctx, a.TaskID, p.UserID)
	if err != nil {
		return Decision{}, err
	}
	if exists {
		return deny(apperrors.ReasonAlreadyLogged), nil
	}
	return allow(), nil
}
