package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/service"
)

// ProjectsHandler exposes project endpoints.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projects *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// List handles GET /api/projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	projects, err := h.projects.ListProjects(c.UserContext(), principal)
	if err != nil {
		return err
	}

	response := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		response = append(response, dto.NewProjectResponse(&projects[i]))
	}
	return c.JSON(response)
}

// Create handles POST /api/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	start, end, err := req.ParseDates()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid date format")
	}

	project, err := h.projects.CreateProject(c.UserContext(), principal, service.ProjectDraft{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewProjectResponse(project))
}

// Update handles PUT /api/projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	start, end, err := req.ParseDates()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid date format")
	}

	project, err := h.projects.UpdateProject(c.UserContext(), principal, c.Params("id"), service.ProjectDraft{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProjectResponse(project))
}
