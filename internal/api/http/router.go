package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/projects-backend/internal/api/http/handlers"
	"github.com/spec-kit/projects-backend/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Projects       *handlers.ProjectsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Project mutation requires a valid
// session token; reads and the banner stay public.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Projects Backend")
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/register", cfg.Auth.Register)
	app.Post("/login", cfg.Auth.Login)

	app.Get("/projects", cfg.Projects.List)
	app.Post("/addProject", cfg.AuthMiddleware.Handle, cfg.Projects.Add)
}
