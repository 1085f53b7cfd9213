package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/api/http/handlers"
	"github.com/betaops/beta-manager/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Testers        *handlers.TestersHandler
	Feedback       *handlers.FeedbackHandler
	Incidents      *handlers.IncidentsHandler
	Communications *handlers.CommunicationsHandler
	Templates      *handlers.TemplatesHandler
	Dashboard      *handlers.DashboardHandler
	Jobs           *handlers.JobsHandler
	Public         *handlers.PublicHandler
	AuthMiddleware *auth.Middleware
	RateLimiter    *RateLimiter
	APILimit       int
	PublicLimit    int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	public := app.Group("/public", cfg.RateLimiter.Limit("public", cfg.PublicLimit))
	public.Post("/feedback", cfg.Public.SubmitFeedback)

	api := app.Group("/api", cfg.RateLimiter.Limit("api", cfg.APILimit))

	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/auth/logout", cfg.Auth.Logout)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/auth/me", cfg.Auth.Me)

	protected.Get("/testers", cfg.Testers.List)
	protected.Post("/testers", cfg.Testers.Create)
	protected.Get("/testers/:id", cfg.Testers.Get)
	protected.Patch("/testers/:id", cfg.Testers.Update)
	protected.Delete("/testers/:id", cfg.Testers.Delete)
	protected.Post("/testers/:id/stage", cfg.Testers.SetStage)
	protected.Get("/testers/:id/timeline", cfg.Testers.Timeline)
	protected.Post("/testers/:id/render-email", cfg.Testers.RenderEmail)
	protected.Post("/testers/:id/send-email", cfg.Testers.SendEmail)

	protected.Get("/feedback", cfg.Feedback.List)
	protected.Post("/feedback", cfg.Feedback.Create)
	protected.Get("/feedback/:id", cfg.Feedback.Get)
	protected.Patch("/feedback/:id", cfg.Feedback.Update)
	protected.Delete("/feedback/:id", cfg.Feedback.Delete)

	protected.Get("/incidents", cfg.Incidents.List)
	protected.Post("/incidents", cfg.Incidents.Create)
	protected.Get("/incidents/:id", cfg.Incidents.Get)
	protected.Patch("/incidents/:id", cfg.Incidents.Update)
	protected.Delete("/incidents/:id", cfg.Incidents.Delete)

	protected.Get("/communications", cfg.Communications.List)
	protected.Post("/communications", cfg.Communications.Create)
	protected.Get("/communications/:id", cfg.Communications.Get)

	protected.Get("/templates", cfg.Templates.List)
	protected.Post("/templates", cfg.Templates.Create)
	protected.Post("/templates/:name/preview", cfg.Templates.Preview)
	protected.Get("/templates/:id", cfg.Templates.Get)
	protected.Patch("/templates/:id", cfg.Templates.Update)
	protected.Delete("/templates/:id", cfg.Templates.Delete)

	protected.Get("/dashboard/stats", cfg.Dashboard.Stats)
	protected.Get("/dashboard/funnel", cfg.Dashboard.Funnel)
	protected.Get("/dashboard/activity", cfg.Dashboard.Activity)
	protected.Get("/dashboard/alerts", cfg.Dashboard.Alerts)

	protected.Post("/jobs/daily-emails/run", cfg.Jobs.RunDailyEmails)
	protected.Post("/jobs/inactivity-check/run", cfg.Jobs.RunInactivityCheck)
}
