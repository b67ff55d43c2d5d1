package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/authz"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

type teamFixture struct {
	service    *TeamService
	teams      *teamRepoMock
	users      *userRepoMock
	dispatcher *recordingDispatcher
}

func newTeamFixture(t *testing.T) *teamFixture {
	t.Helper()
	teams := new(teamRepoMock)
	users := new(userRepoMock)
	dispatcher := &recordingDispatcher{}

	resolver := authz.NewMembershipResolver(teams, users, nil, 0, zap.NewNop())
	engine := authz.NewEngine(new(taskRepoMock), new(timeLogRepoMock), resolver)

	return &teamFixture{
		service:    NewTeamService(teams, users, engine, resolver, dispatcher),
		teams:      teams,
		users:      users,
		dispatcher: dispatcher,
	}
}

var admin = authz.Principal{UserID: "a1", Role: domain.RoleAdmin}

func TestCreateTeam(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		f := newTeamFixture(t)
		f.users.On("GetByID", mock.Anything, "m1").Return(&domain.User{ID: "m1", Role: domain.RoleManager}, nil)
		f.teams.On("Create", mock.Anything, mock.AnythingOfType("*domain.Team")).Return(nil)

		team, err := f.service.CreateTeam(context.Background(), admin, "  Platform  ", "m1")
		require.NoError(t, err)
		require.Equal(t, "Platform", team.Name)
		require.Equal(t, "m1", team.ManagerID)

		published := f.dispatcher.events()
		require.Len(t, published, 1)
		require.Equal(t, events.EventTeamCreated, published[0].Type)
	})

	t.Run("non admin denied", func(t *testing.T) {
		f := newTeamFixture(t)

		_, err := f.service.CreateTeam(context.Background(), authz.Principal{UserID: "m1", Role: domain.RoleManager}, "Platform", "m1")

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("manager role required", func(t *testing.T) {
		f := newTeamFixture(t)
		f.users.On("GetByID", mock.Anything, "d1").Return(&domain.User{ID: "d1", Role: domain.RoleDeveloper}, nil)

		_, err := f.service.CreateTeam(context.Background(), admin, "Platform", "d1")

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})

	t.Run("duplicate name or second team is a conflict", func(t *testing.T) {
		f := newTeamFixture(t)
		f.users.On("GetByID", mock.Anything, "m1").Return(&domain.User{ID: "m1", Role: domain.RoleManager}, nil)
		f.teams.On("Create", mock.Anything, mock.AnythingOfType("*domain.Team")).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "teams_name_key"})

		_, err := f.service.CreateTeam(context.Background(), admin, "Platform", "m1")

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "CONFLICT", domainErr.Code)
	})
}

func TestAssignUserToTeam(t *testing.T) {
	team := &domain.Team{ID: "team1", Name: "Platform", ManagerID: "m1"}

	t.Run("developer joins", func(t *testing.T) {
		f := newTeamFixture(t)
		f.teams.On("GetByID", mock.Anything, "team1").Return(team, nil)
		f.users.On("GetByID", mock.Anything, "d1").Return(&domain.User{ID: "d1", Role: domain.RoleDeveloper}, nil)
		f.users.On("UpdateTeam", mock.Anything, "d1", &team.ID).
			Return(&domain.User{ID: "d1", Role: domain.RoleDeveloper, TeamID: &team.ID}, nil)

		updated, err := f.service.AssignUserToTeam(context.Background(), admin, "d1", "team1")
		require.NoError(t, err)
		require.NotNil(t, updated.TeamID)
		require.Equal(t, "team1", *updated.TeamID)
	})

	t.Run("manager cannot join a team", func(t *testing.T) {
		f := newTeamFixture(t)
		f.teams.On("GetByID", mock.Anything, "team1").Return(team, nil)
		f.users.On("GetByID", mock.Anything, "m2").Return(&domain.User{ID: "m2", Role: domain.RoleManager}, nil)

		_, err := f.service.AssignUserToTeam(context.Background(), admin, "m2", "team1")

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		f.users.AssertNotCalled(t, "UpdateTeam", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown team", func(t *testing.T) {
		f := newTeamFixture(t)
		f.teams.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

		_, err := f.service.AssignUserToTeam(context.Background(), admin, "d1", "ghost")

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestManagerTeam(t *testing.T) {
	t.Run("members of the led team", func(t *testing.T) {
		f := newTeamFixture(t)
		teamID := "team1"
		f.teams.On("GetByManager", mock.Anything, "m1").Return(&domain.Team{ID: teamID, ManagerID: "m1"}, nil)
		f.users.On("ListByTeamID", mock.Anything, teamID).Return([]domain.User{{ID: "d1"}, {ID: "d2"}}, nil)

		members, err := f.service.ManagerTeam(context.Background(), authz.Principal{UserID: "m1", Role: domain.RoleManager})
		require.NoError(t, err)
		require.Len(t, members, 2)
	})

	t.Run("manager without a team gets empty roster", func(t *testing.T) {
		f := newTeamFixture(t)
		f.teams.On("GetByManager", mock.Anything, "m1").Return(nil, pgx.ErrNoRows)

		members, err := f.service.ManagerTeam(context.Background(), authz.Principal{UserID: "m1", Role: domain.RoleManager})
		require.NoError(t, err)
		require.Empty(t, members)
	})

	t.Run("developer denied", func(t *testing.T) {
		f := newTeamFixture(t)

		_, err := f.service.ManagerTeam(context.Background(), authz.Principal{UserID: "d1", Role: domain.RoleDeveloper})

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "FORBIDDEN", domainErr.Code)
	})
}
