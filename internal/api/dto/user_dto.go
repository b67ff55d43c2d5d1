package dto

import "github.com/spec-kit/project-service/internal/domain"

// UserResponse is the wire shape for an account.
type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	TeamID   *string `json:"team,omitempty"`
	TeamName string  `json:"team_name,omitempty"`
}

// UpdateRoleRequest payload for role changes.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// NewUserResponse maps a domain user, with the team name when known.
func NewUserResponse(user *domain.User, teamName string) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		TeamID:   user.TeamID,
		TeamName: teamName,
	}
}
