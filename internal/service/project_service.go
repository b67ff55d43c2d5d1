package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/authz"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// ProjectDraft describes project creation or update payload.
type ProjectDraft struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProjectService handles project listing and admin mutations.
type ProjectService struct {
	projects repository.ProjectRepository
	engine   *authz.Engine
}

// NewProjectService creates the service.
func NewProjectService(projects repository.ProjectRepository, engine *authz.Engine) *ProjectService {
	return &ProjectService{projects: projects, engine: engine}
}

// ListProjects returns all projects. Visible to every authenticated
// caller regardless of role.
func (s *ProjectService) ListProjects(ctx context.Context, principal authz.Principal) ([]domain.Project, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.ViewAllProjects{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return projects, nil
}

// CreateProject creates a project; admin only.
func (s *ProjectService) CreateProject(ctx context.Context, principal authz.Principal, draft ProjectDraft) (*domain.Project, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.CreateOrEditProject{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	if err := validateProjectDraft(draft); err != nil {
		return nil, err
	}

	ownerID := principal.UserID
	project := &domain.Project{
		Name:        strings.TrimSpace(draft.Name),
		Description: draft.Description,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		OwnerID:     &ownerID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return project, nil
}

// UpdateProject edits an existing project; admin only.
func (s *ProjectService) UpdateProject(ctx context.Context, principal authz.Principal, projectID string, draft ProjectDraft) (*domain.Project, error) {
	decision, err := s.engine.Decide(ctx, principal, authz.CreateOrEditProject{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	if err := validateProjectDraft(draft); err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": projectID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	project.Name = strings.TrimSpace(draft.Name)
	project.Description = draft.Description
	project.StartDate = draft.StartDate
	project.EndDate = draft.EndDate

	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": projectID})
		}
		return nil, apperrors.NewStorageError(err)
	}
	return project, nil
}

func validateProjectDraft(draft ProjectDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return apperrors.NewValidationError("name", "required")
	}
	if draft.StartDate != nil && draft.EndDate != nil && draft.EndDate.Before(*draft.StartDate) {
		return apperrors.NewValidationError("end_date", "must not precede start_date")
	}
	return nil
}
