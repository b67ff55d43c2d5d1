package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/service"
)

// TeamsHandler exposes team management endpoints.
type TeamsHandler struct {
	teams *service.TeamService
	users *service.UserService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService, users *service.UserService) *TeamsHandler {
	return &TeamsHandler{teams: teams, users: users}
}

// List handles GET /api/accounts/teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	teams, err := h.teams.ListTeams(c.UserContext(), principal)
	if err != nil {
		return err
	}

	managerNames := map[string]string{}
	if users, err := h.users.ListUsers(c.UserContext(), principal); err == nil {
		for _, user := range users {
			managerNames[user.ID] = user.Username
		}
	}

	response := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		response = append(response, dto.NewTeamResponse(&teams[i], managerNames[teams[i].ManagerID]))
	}
	return c.JSON(response)
}

// Create handles POST /api/accounts/teams/create.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.TeamCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	team, err := h.teams.CreateTeam(c.UserContext(), principal, req.Name, req.Manager)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTeamResponse(team, ""))
}

// ManagerTeam handles GET /api/accounts/manager/team.
func (h *TeamsHandler) ManagerTeam(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	members, err := h.teams.ManagerTeam(c.UserContext(), principal)
	if err != nil {
		return err
	}

	response := make([]dto.UserResponse, 0, len(members))
	for i := range members {
		response = append(response, dto.NewUserResponse(&members[i], ""))
	}
	return c.JSON(response)
}
