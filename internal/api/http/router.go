package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Tickets     *handlers.TicketsHandler
	Agents      *handlers.AgentsHandler
	Escalations *handlers.EscalationsHandler
	Stats       *handlers.StatsHandler
	Auth        *handlers.AuthHandler
	AdminAuth   *auth.AdminAuth
}

// RegisterRoutes wires HTTP routes. Admin-only routes sit behind the
// bearer-token middleware; it passes requests through when no admin key
// is configured.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/token", cfg.Auth.IssueToken)

	requireAdmin := cfg.AdminAuth.RequireAdmin()

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", requireAdmin, cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Post("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Post("/:id/escalate", cfg.Tickets.EscalateTicket)
	tickets.Post("/:id/generate-response", cfg.Tickets.GenerateResponse)

	agents := app.Group("/agents")
	agents.Get("/", cfg.Agents.ListAgents)
	agents.Get("/:id", cfg.Agents.GetAgent)
	agents.Post("/", requireAdmin, cfg.Agents.CreateAgent)
	agents.Patch("/:id", requireAdmin, cfg.Agents.UpdateAgent)
	agents.Delete("/:id", requireAdmin, cfg.Agents.DeleteAgent)

	app.Post("/check-escalations", requireAdmin, cfg.Escalations.CheckEscalations)
	app.Get("/escalation-rules", cfg.Escalations.ListRules)

	app.Get("/stats", cfg.Stats.GetStats)
}
