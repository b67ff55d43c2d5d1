package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
	"github.com/spec-kit/project-service/internal/service"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// AccountsHandler exposes registration, login and the current-user view.
type AccountsHandler struct {
	auth  *service.AuthService
	teams repository.TeamRepository
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService, teams repository.TeamRepository) *AccountsHandler {
	return &AccountsHandler{auth: authService, teams: teams}
}

// Register handles POST /api/accounts/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, token, exp, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user": dto.NewUserResponse(user, ""),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Login handles POST /api/accounts/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":   dto.NewUserResponse(user, ""),
		"access": token,
		"auth":   dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Me handles GET /api/accounts/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	_, principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	teamName := ""
	if principal.User.TeamID != nil {
		team, err := h.teams.GetByID(c.UserContext(), *principal.User.TeamID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return apperrors.MapError(err)
		}
		if team != nil {
			teamName = team.Name
		}
	}
	return c.JSON(dto.NewUserResponse(principal.User, teamName))
}
