package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/http/handlers"
	"github.com/spec-kit/project-service/internal/auth"
	"github.com/spec-kit/project-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Users          *handlers.UsersHandler
	Teams          *handlers.TeamsHandler
	Projects       *handlers.ProjectsHandler
	Tasks          *handlers.TasksHandler
	TimeLogs       *handlers.TimeLogsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role gates here only coarse-filter
// requests; per-resource decisions happen in the policy engine.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	accounts := api.Group("/accounts")
	accounts.Post("/register", cfg.Accounts.Register)
	accounts.Post("/login", cfg.Accounts.Login)

	authed := accounts.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authed.Get("/me", cfg.Accounts.Me)
	authed.Get("/users", cfg.Users.List)
	authed.Get("/users/:id", cfg.Users.Get)
	authed.Patch("/users/:id/update-role", auth.RequireRole(domain.RoleAdmin), cfg.Users.UpdateRole)
	authed.Patch("/users/:id/assign-team", auth.RequireRole(domain.RoleAdmin), cfg.Users.AssignTeam)
	authed.Get("/teams", cfg.Teams.List)
	authed.Post("/teams/create", auth.RequireRole(domain.RoleAdmin), cfg.Teams.Create)
	authed.Get("/manager/team", auth.RequireRole(domain.RoleManager), cfg.Teams.ManagerTeam)

	projects := api.Group("/projects", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	projects.Get("/", cfg.Projects.List)
	projects.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Projects.Create)
	projects.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Projects.Update)

	tasks := api.Group("/tasks", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tasks.Get("/", cfg.Tasks.List)
	tasks.Post("/", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Tasks.Create)
	tasks.Patch("/:id", cfg.Tasks.UpdateStatus)

	timeLogs := api.Group("/timelogs", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	timeLogs.Get("/", cfg.TimeLogs.List)
	timeLogs.Post("/", cfg.TimeLogs.Create)
}
