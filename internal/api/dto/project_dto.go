package dto

import (
	"time"

	"github.com/spec-kit/project-service/internal/domain"
)

const dateLayout = "2006-01-02"

// ProjectRequest payload for project creation and edits. Dates arrive
// as the date-input format.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ParseDates converts the request's date strings, empty meaning unset.
func (r ProjectRequest) ParseDates() (start, end *time.Time, err error) {
	if r.StartDate != "" {
		parsed, perr := time.Parse(dateLayout, r.StartDate)
		if perr != nil {
			return nil, nil, perr
		}
		start = &parsed
	}
	if r.EndDate != "" {
		parsed, perr := time.Parse(dateLayout, r.EndDate)
		if perr != nil {
			return nil, nil, perr
		}
		end = &parsed
	}
	return start, end, nil
}

// ProjectResponse is the wire shape for a project.
type ProjectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Owner       *string `json:"owner,omitempty"`
}

// NewProjectResponse maps a domain project.
func NewProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartDate:   formatDate(project.StartDate),
		EndDate:     formatDate(project.EndDate),
		Owner:       project.OwnerID,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}
