package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/http/handlers"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Cases          *handlers.CasesHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	cases := app.Group("/cases", cfg.AuthMiddleware.Handle)
	cases.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Cases.Create)
	cases.Get("", cfg.Cases.List)
	cases.Get("/:id", cfg.Cases.Get)
	cases.Patch("/:id/status", cfg.Cases.UpdateStatus)
	cases.Post("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.Cases.Assign)

	app.Get("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Users.List)

	activity := app.Group("/activity", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	activity.Get("", cfg.Activity.List)
	activity.Get("/entity/:kind/:id", cfg.Activity.ListByEntity)
	activity.Get("/actor/:id", cfg.Activity.ListByActor)
}
