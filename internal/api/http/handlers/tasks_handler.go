package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/service"
)

// TasksHandler exposes task endpoints.
type TasksHandler struct {
	tasks       *service.TaskService
	assignments *service.AssignmentService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(tasks *service.TaskService, assignments *service.AssignmentService) *TasksHandler {
	return &TasksHandler{tasks: tasks, assignments: assignments}
}

// List handles GET /api/tasks. Admins and managers see every task,
// developers only their own.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListTasks(c.UserContext(), principal)
	if err != nil {
		return err
	}

	response := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(response)
}

// Create handles POST /api/tasks, assigning a new task to a user.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.TaskCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.assignments.AssignTask(c.UserContext(), principal, req.AssignedTo, service.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.Project,
		DueDate:     req.DueDate,
		Status:      domain.TaskStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTaskResponse(task))
}

// UpdateStatus handles PATCH /api/tasks/:id.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, _, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.TaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.tasks.UpdateStatus(c.UserContext(), principal, c.Params("id"), domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTaskResponse(task))
}
