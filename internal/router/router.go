package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quizdesk/quizdesk-api/internal/config"
	"github.com/quizdesk/quizdesk-api/internal/handler"
	"github.com/quizdesk/quizdesk-api/internal/middleware"
	"github.com/quizdesk/quizdesk-api/internal/models"
	"github.com/quizdesk/quizdesk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuizHandler       *handler.QuizHandler
	QuestionHandler   *handler.QuestionHandler
	AttemptHandler    *handler.AttemptHandler
	GradingHandler    *handler.GradingHandler
	DashboardHandler  *handler.DashboardHandler
	EnrollmentHandler *handler.EnrollmentHandler
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

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Teacher surface: quiz authoring, questions, manual grading.
	if deps.QuizHandler != nil {
		teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin))

		quizGroup := teacher.Group("/quizzes")
		deps.QuizHandler.Register(quizGroup)

		if deps.QuestionHandler != nil {
			deps.QuestionHandler.Register(quizGroup)
			deps.QuestionHandler.RegisterDelete(teacher)
		}

		if deps.GradingHandler != nil {
			deps.GradingHandler.Register(teacher)
		}

		if deps.AttemptHandler != nil {
			deps.AttemptHandler.RegisterRead(teacher)
			deps.AttemptHandler.RegisterRelease(teacher)
		}
	}

	// Student surface: active listings, submission, own attempts.
	if deps.AttemptHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))

		if deps.QuizHandler != nil {
			deps.QuizHandler.RegisterStudent(student)
		}

		submitGroup := student.Group("", middleware.RateLimit("quiz-submit", 5, time.Minute))
		deps.AttemptHandler.RegisterStudent(submitGroup)
		deps.AttemptHandler.RegisterRead(student)
	}

	// Admin surface: dashboard statistics and enrollment management.
	if deps.DashboardHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.DashboardHandler.Register(admin)

		if deps.EnrollmentHandler != nil {
			deps.EnrollmentHandler.Register(admin)
		}
	}
}
