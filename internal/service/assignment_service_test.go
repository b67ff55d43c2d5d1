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

type assignmentFixture struct {
	service    *AssignmentService
	tasks      *taskRepoMock
	users      *userRepoMock
	teams      *teamRepoMock
	projects   *projectRepoMock
	timeLogs   *timeLogRepoMock
	dispatcher *recordingDispatcher
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()
	tasks := new(taskRepoMock)
	users := new(userRepoMock)
	teams := new(teamRepoMock)
	projects := new(projectRepoMock)
	timeLogs := new(timeLogRepoMock)
	dispatcher := &recordingDispatcher{}

	resolver := authz.NewMembershipResolver(teams, users, nil, 0, zap.NewNop())
	engine := authz.NewEngine(tasks, timeLogs, resolver)

	svc := NewAssignmentService(AssignmentDependencies{
		TaskRepo:    tasks,
		UserRepo:    users,
		ProjectRepo: projects,
		Engine:      engine,
		Dispatcher:  dispatcher,
	})
	return &assignmentFixture{
		service:    svc,
		tasks:      tasks,
		users:      users,
		teams:      teams,
		projects:   projects,
		timeLogs:   timeLogs,
		dispatcher: dispatcher,
	}
}

func (f *assignmentFixture) withTeam(managerID string, memberIDs ...string) {
	team := &domain.Team{ID: "team1", ManagerID: managerID}
	members := make([]domain.User, 0, len(memberIDs))
	for _, id := range memberIDs {
		teamID := team.ID
		members = append(members, domain.User{ID: id, Role: domain.RoleDeveloper, TeamID: &teamID})
	}
	f.teams.On("GetByManager", mock.Anything, managerID).Return(team, nil)
	f.users.On("ListByTeamID", mock.Anything, team.ID).Return(members, nil)
}

func TestAssignTaskManagerToTeamMember(t *testing.T) {
	f := newAssignmentFixture(t)
	f.withTeam("m1", "d1", "d2")
	f.users.On("GetByID", mock.Anything, "d1").Return(&domain.User{ID: "d1", Role: domain.RoleDeveloper}, nil)
	f.tasks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)

	principal := authz.Principal{UserID: "m1", Role: domain.RoleManager}
	task, err := f.service.AssignTask(context.Background(), principal, "d1", TaskDraft{
		Title:   "  Ship the importer  ",
		DueDate: "2026-09-15",
	})
	require.NoError(t, err)
	require.Equal(t, "Ship the importer", task.Title)
	require.Equal(t, "d1", task.AssigneeID)
	require.Equal(t, domain.TaskStatusTodo, task.Status)
	require.NotNil(t, task.DueDate)
	require.Equal(t, "m1", task.CreatedBy)

	published := f.dispatcher.events()
	require.Len(t, published, 1)
	require.Equal(t, events.EventTaskAssigned, published[0].Type)
}

func TestAssignTaskManagerDeniedForOutsider(t *testing.T) {
	f := newAssignmentFixture(t)
	f.withTeam("m1", "d1")

	principal := authz.Principal{UserID: "m1", Role: domain.RoleManager}
	_, err := f.service.AssignTask(context.Background(), principal, "stranger", TaskDraft{Title: "X"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "FORBIDDEN", domainErr.Code)
	require.Equal(t, apperrors.ReasonNotTeamMember, domainErr.Details["reason"])

	// denial happens before any user lookup or write
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	require.Empty(t, f.dispatcher.events())
}

func TestAssignTaskDeveloperDenied(t *testing.T) {
	f := newAssignmentFixture(t)

	principal := authz.Principal{UserID: "d1", Role: domain.RoleDeveloper}
	_, err := f.service.AssignTask(context.Background(), principal, "d2", TaskDraft{Title: "X"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "FORBIDDEN", domainErr.Code)
	require.Equal(t, apperrors.ReasonNotAuthorized, domainErr.Details["reason"])
	f.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssignTaskValidation(t *testing.T) {
	principal := authz.Principal{UserID: "a1", Role: domain.RoleAdmin}

	t.Run("title required", func(t *testing.T) {
		f := newAssignmentFixture(t)
		_, err := f.service.AssignTask(context.Background(), principal, "d1", TaskDraft{Title: "   "})

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		require.Equal(t, "title", domainErr.Details["field"])
	})

	t.Run("bad due date", func(t *testing.T) {
		f := newAssignmentFixture(t)
		_, err := f.service.AssignTask(context.Background(), principal, "d1", TaskDraft{Title: "X", DueDate: "next tuesday"})

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		require.Equal(t, "due_date", domainErr.Details["field"])
	})

	t.Run("bad status", func(t *testing.T) {
		f := newAssignmentFixture(t)
		_, err := f.service.AssignTask(context.Background(), principal, "d1", TaskDraft{Title: "X", Status: domain.TaskStatus("blocked")})

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		require.Equal(t, "status", domainErr.Details["field"])
	})

	t.Run("unknown project", func(t *testing.T) {
		f := newAssignmentFixture(t)
		projectID := "p-missing"
		f.projects.On("GetByID", mock.Anything, projectID).Return(nil, pgx.ErrNoRows)

		_, err := f.service.AssignTask(context.Background(), principal, "d1", TaskDraft{Title: "X", ProjectID: &projectID})

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestAssignTaskTargetUserMissing(t *testing.T) {
	f := newAssignmentFixture(t)
	f.users.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

	principal := authz.Principal{UserID: "a1", Role: domain.RoleAdmin}
	_, err := f.service.AssignTask(context.Background(), principal, "ghost", TaskDraft{Title: "X"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "NOT_FOUND", domainErr.Code)
	f.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssignTaskStorageFailureNotRetried(t *testing.T) {
	f := newAssignmentFixture(t)
	f.users.On("GetByID", mock.Anything, "d1").Return(&domain.User{ID: "d1"}, nil)
	f.tasks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(context.DeadlineExceeded).Once()

	principal := authz.Principal{UserID: "a1", Role: domain.RoleAdmin}
	_, err := f.service.AssignTask(context.Background(), principal, "d1", TaskDraft{Title: "X"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "STORAGE_ERROR", domainErr.Code)
	f.tasks.AssertNumberOfCalls(t, "Create", 1)
	require.Empty(t, f.dispatcher.events())
}
