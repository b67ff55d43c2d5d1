package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/service"
)

// UsersHandler exposes account administration endpoints.
type UsersHandler struct {
	users *service.UserService
	teams *service.TeamService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, teams *service.TeamService) *UsersHandler {
	return &UsersHandler{users: users, teams: teams}
}

// List handles GET /api/accounts/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.users.ListUsers(c.UserContext(), principal)
	if err != nil {
		return err
	}

	teamNames := map[string]string{}
	if teams, err := h.teams.ListTeams(c.UserContext(), principal); err == nil {
		for _, team := range teams {
			teamNames[team.ID] = team.Name
		}
	}

	response := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		name := ""
		if users[i].TeamID != nil {
			name = teamNames[*users[i].TeamID]
		}
		response = append(response, dto.NewUserResponse(&users[i], name))
	}
	return c.JSON(response)
}

// Get handles GET /api/accounts/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetUser(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user, ""))
}

// UpdateRole handles PATCH /api/accounts/users/:id/update-role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateRole(c.UserContext(), principal, c.Params("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user, ""))
}

// AssignTeam handles PATCH /api/accounts/users/:id/assign-team.
func (h *UsersHandler) AssignTeam(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.AssignTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Team == "" {
		return fiber.NewError(http.StatusBadRequest, "team required")
	}

	user, err := h.teams.AssignUserToTeam(c.UserContext(), principal, c.Params("id"), req.Team)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user, ""))
}
