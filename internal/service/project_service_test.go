package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/authz"
	"github.com/spec-kit/project-service/internal/domain"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

func newProjectFixture(t *testing.T) (*ProjectService, *projectRepoMock) {
	t.Helper()
	projects := new(projectRepoMock)
	resolver := authz.NewMembershipResolver(new(teamRepoMock), new(userRepoMock), nil, 0, zap.NewNop())
	engine := authz.NewEngine(new(taskRepoMock), new(timeLogRepoMock), resolver)
	return NewProjectService(projects, engine), projects
}

func TestListProjectsOpenToAllRoles(t *testing.T) {
	svc, projects := newProjectFixture(t)
	projects.On("List", mock.Anything).Return([]domain.Project{{ID: "p1"}}, nil)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleDeveloper} {
		list, err := svc.ListProjects(context.Background(), authz.Principal{UserID: "u1", Role: role})
		require.NoError(t, err)
		require.Len(t, list, 1)
	}
}

func TestCreateProjectAdminOnly(t *testing.T) {
	t.Run("admin creates and owns", func(t *testing.T) {
		svc, projects := newProjectFixture(t)
		projects.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil)

		project, err := svc.CreateProject(context.Background(), admin, ProjectDraft{Name: " Billing Revamp "})
		require.NoError(t, err)
		require.Equal(t, "Billing Revamp", project.Name)
		require.NotNil(t, project.OwnerID)
		require.Equal(t, admin.UserID, *project.OwnerID)
	})

	t.Run("manager denied", func(t *testing.T) {
		svc, projects := newProjectFixture(t)

		_, err := svc.CreateProject(context.Background(), authz.Principal{UserID: "m1", Role: domain.RoleManager}, ProjectDraft{Name: "X"})

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "FORBIDDEN", domainErr.Code)
		projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("end date before start date rejected", func(t *testing.T) {
		svc, _ := newProjectFixture(t)
		start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -7)

		_, err := svc.CreateProject(context.Background(), admin, ProjectDraft{Name: "X", StartDate: &start, EndDate: &end})

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})
}
