package dto

import "github.com/spec-kit/project-service/internal/domain"

// TeamCreateRequest payload for team creation.
type TeamCreateRequest struct {
	Name    string `json:"name"`
	Manager string `json:"manager"`
}

// AssignTeamRequest payload for placing a user on a team.
type AssignTeamRequest struct {
	Team string `json:"team"`
}

// TeamResponse is the wire shape for a team.
type TeamResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Manager     string `json:"manager"`
	ManagerName string `json:"manager_name,omitempty"`
}

// NewTeamResponse maps a domain team, with the manager name when known.
func NewTeamResponse(team *domain.Team, managerName string) TeamResponse {
	return TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Manager:     team.ManagerID,
		ManagerName: managerName,
	}
}
