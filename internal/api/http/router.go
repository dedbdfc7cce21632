package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resolvely/ticket-tracker/internal/api/http/handlers"
	"github.com/resolvely/ticket-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/providers", cfg.Users.Providers)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/recent", cfg.Tickets.ListRecent)
	tickets.Get("/assigned", cfg.Tickets.ListAssigned)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/timeline", cfg.Tickets.Timeline)
	tickets.Get("/:id/history", cfg.Tickets.History)

	dashboard := api.Group("/dashboard")
	dashboard.Get("/", cfg.Dashboard.Overview)
	dashboard.Get("/stats", cfg.Dashboard.Stats)
	dashboard.Get("/distribution", cfg.Dashboard.Distribution)
	dashboard.Get("/analytics", cfg.Dashboard.Analytics)
	dashboard.Get("/activity", cfg.Dashboard.Activity)

	catalog := api.Group("/catalog")
	catalog.Get("/statuses", cfg.Dashboard.Statuses)
	catalog.Get("/priorities", cfg.Dashboard.Priorities)

	users := api.Group("/users")
	users.Get("/", cfg.Dashboard.Users)
	users.Get("/me", cfg.Users.Me)
}
