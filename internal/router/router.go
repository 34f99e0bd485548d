package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/config"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/handler"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/middleware"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler    *handler.StudentHandler
	ScheduleHandler   *handler.ScheduleHandler
	AssignmentHandler *handler.AssignmentHandler
	DashboardHandler  *handler.DashboardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
	}

	if deps.ScheduleHandler != nil {
		schedules := api.Group("/students/:studentID/schedules", jwtMiddleware)
		// Students read their plan; only staff close or move sessions.
		// Rescheduling is write-heavy and user-triggered; cap bursts per user.
		staffOnly := middleware.RequireRole("admin", "teacher")
		schedules.Use("/:id/reschedule", staffOnly, middleware.RateLimit("reschedule", cfg.RescheduleRateMax, cfg.RescheduleRateSpan))
		schedules.Delete("/:id", staffOnly)
		deps.ScheduleHandler.Register(schedules)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/students/:studentID/assignments", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/students/:studentID/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}
}
