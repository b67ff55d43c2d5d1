package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/authz"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

type userFixture struct {
	service    *UserService
	users      *userRepoMock
	teams      *teamRepoMock
	dispatcher *recordingDispatcher
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := new(userRepoMock)
	teams := new(teamRepoMock)
	dispatcher := &recordingDispatcher{}

	resolver := authz.NewMembershipResolver(teams, users, nil, 0, zap.NewNop())
	engine := authz.NewEngine(new(taskRepoMock), new(timeLogRepoMock), resolver)

	return &userFixture{
		service:    NewUserService(users, teams, engine, resolver, dispatcher),
		users:      users,
		teams:      teams,
		dispatcher: dispatcher,
	}
}

func TestGetUser(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.On("GetByID", mock.Anything, "d1").Return(&domain.User{ID: "d1"}, nil)

		user, err := f.service.GetUser(context.Background(), authz.Principal{UserID: "d1", Role: domain.RoleDeveloper}, "d1")
		require.NoError(t, err)
		require.Equal(t, "d1", user.ID)
	})

	t.Run("manager reads own team member", func(t *testing.T) {
		f := newUserFixture(t)
		teamID := "team1"
		f.teams.On("GetByManager", mock.Anything, "m1").Return(&domain.Team{ID: teamID, ManagerID: "m1"}, nil)
		f.users.On("ListByTeamID", mock.Anything, teamID).Return([]domain.User{{ID: "d1"}}, nil)
		f.users.On("GetByID", mock.Anything, "d1").Return(&domain.User{ID: "d1"}, nil)

		_, err := f.service.GetUser(context.Background(), authz.Principal{UserID: "m1", Role: domain.RoleManager}, "d1")
		require.NoError(t, err)
	})

	t.Run("manager denied outside roster, existence hidden", func(t *testing.T) {
		f := newUserFixture(t)
		teamID := "team1"
		f.teams.On("GetByManager", mock.Anything, "m1").Return(&domain.Team{ID: teamID, ManagerID: "m1"}, nil)
		f.users.On("ListByTeamID", mock.Anything, teamID).Return([]domain.User{{ID: "d1"}}, nil)

		_, err := f.service.GetUser(context.Background(), authz.Principal{UserID: "m1", Role: domain.RoleManager}, "ghost")

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "FORBIDDEN", domainErr.Code)
		f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestUpdateRole(t *testing.T) {
	t.Run("manager leading a team cannot be demoted", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.On("GetByID", mock.Anything, "m1").Return(&domain.User{ID: "m1", Role: domain.RoleManager}, nil)
		f.teams.On("GetByManager", mock.Anything, "m1").Return(&domain.Team{ID: "team1", ManagerID: "m1"}, nil)

		_, err := f.service.UpdateRole(context.Background(), admin, "m1", domain.RoleDeveloper)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "CONFLICT", domainErr.Code)
		f.users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("promoting a developer detaches the team", func(t *testing.T) {
		f := newUserFixture(t)
		teamID := "team1"
		f.users.On("GetByID", mock.Anything, "d1").Return(&domain.User{ID: "d1", Role: domain.RoleDeveloper, TeamID: &teamID}, nil)
		f.teams.On("GetByID", mock.Anything, teamID).Return(&domain.Team{ID: teamID, ManagerID: "m1"}, nil)
		f.users.On("UpdateRole", mock.Anything, "d1", domain.RoleManager, (*string)(nil)).
			Return(&domain.User{ID: "d1", Role: domain.RoleManager}, nil)

		updated, err := f.service.UpdateRole(context.Background(), admin, "d1", domain.RoleManager)
		require.NoError(t, err)
		require.Nil(t, updated.TeamID)

		published := f.dispatcher.events()
		require.Len(t, published, 1)
		require.Equal(t, events.EventUserRoleChanged, published[0].Type)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.On("GetByID", mock.Anything, "d1").Return(&domain.User{ID: "d1", Role: domain.RoleDeveloper}, nil)

		user, err := f.service.UpdateRole(context.Background(), admin, "d1", domain.RoleDeveloper)
		require.NoError(t, err)
		require.Equal(t, domain.RoleDeveloper, user.Role)
		f.users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		require.Empty(t, f.dispatcher.events())
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		f := newUserFixture(t)

		_, err := f.service.UpdateRole(context.Background(), admin, "d1", domain.Role("owner"))

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})

	t.Run("non admin denied", func(t *testing.T) {
		f := newUserFixture(t)

		_, err := f.service.UpdateRole(context.Background(), authz.Principal{UserID: "m1", Role: domain.RoleManager}, "d1", domain.RoleAdmin)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

		_, err := f.service.UpdateRole(context.Background(), admin, "ghost", domain.RoleManager)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestListUsersAdminOnly(t *testing.T) {
	f := newUserFixture(t)
	f.users.On("List", mock.Anything).Return([]domain.User{{ID: "u1"}}, nil)

	users, err := f.service.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, users, 1)

	_, err = f.service.ListUsers(context.Background(), authz.Principal{UserID: "d1", Role: domain.RoleDeveloper})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "FORBIDDEN", domainErr.Code)
}
