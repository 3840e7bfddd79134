package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pengaduan-service/internal/api/http/handlers"
	"github.com/spec-kit/pengaduan-service/internal/auth"
	"github.com/spec-kit/pengaduan-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	QR             *handlers.QRHandler
	Reports        *handlers.ReportsHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything under /api except the
// public submission surface requires a staff token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(), cfg.Staff.ChangePassword)

	api := app.Group("/api")

	// public surface: submit, track, reference data, QR landing
	api.Post("/complaints", cfg.Tickets.Submit)
	api.Get("/complaints/track/:number", cfg.Tickets.Track)
	api.Get("/units", cfg.Tickets.Units)
	api.Get("/service-categories", cfg.Tickets.Categories)
	api.Get("/qr-codes/:code", cfg.QR.Resolve)

	staff := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	staff.Get("/complaints", cfg.StaffTickets.List)
	staff.Get("/complaints/tickets/:id", cfg.StaffTickets.Detail)
	staff.Post("/complaints/tickets/:id/close", cfg.StaffTickets.Close)
	staff.Post("/complaints/tickets/:id/assign", cfg.StaffTickets.Assign)
	staff.Post("/escalations/tickets/:id/respond", cfg.StaffTickets.Respond)
	staff.Post("/escalations/tickets/:id/escalate", cfg.StaffTickets.Escalate)
	staff.Get("/dashboard/stats", cfg.StaffTickets.Stats)
	staff.Get("/reports/tickets", cfg.Reports.Tickets)

	admin := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin, domain.StaffRoleDirector))
	admin.Post("/escalations/tickets/:id/status", cfg.StaffTickets.OverrideStatus)
}
