package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/service"
)

// TimeLogsHandler exposes time log endpoints.
type TimeLogsHandler struct {
	timeLogs *service.TimeLogService
}

// NewTimeLogsHandler constructs handler.
func NewTimeLogsHandler(timeLogs *service.TimeLogService) *TimeLogsHandler {
	return &TimeLogsHandler{timeLogs: timeLogs}
}

// List handles GET /api/timelogs, scoped to the caller's own entries.
func (h *TimeLogsHandler) List(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	logs, err := h.timeLogs.ListLogs(c.UserContext(), principal)
	if err != nil {
		return err
	}

	response := make([]dto.TimeLogResponse, 0, len(logs))
	for _, log := range logs {
		response = append(response, dto.NewTimeLogResponse(log))
	}
	return c.JSON(response)
}

// Create handles POST /api/timelogs.
func (h *TimeLogsHandler) Create(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.TimeLogCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Task == "" {
		return fiber.NewError(http.StatusBadRequest, "task required")
	}

	log, err := h.timeLogs.LogTime(c.UserContext(), principal, req.Task, req.Hours, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.TimeLogResponse{
		ID:          log.ID,
		Task:        log.TaskID,
		Hours:       log.Hours,
		Description: log.Description,
		CreatedAt:   log.CreatedAt,
	})
}
