package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/openacademy/academy-api/internal/config"
	"github.com/openacademy/academy-api/internal/handler"
	"github.com/openacademy/academy-api/internal/middleware"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	CourseHandler       *handler.CourseHandler
	LessonHandler       *handler.LessonHandler
	QuizHandler         *handler.QuizHandler
	AssignmentHandler   *handler.AssignmentHandler
	DiscussionHandler   *handler.DiscussionHandler
	AnnouncementHandler *handler.AnnouncementHandler
	ProgressHandler     *handler.ProgressHandler
	CalendarHandler     *handler.CalendarHandler
	AdminHandler        *handler.AdminHandler
	JWTMiddleware       fiber.Handler
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

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)

		if deps.LessonHandler != nil {
			deps.LessonHandler.RegisterCourseScoped(courses)
			deps.LessonHandler.Register(api.Group("/lessons", jwtMiddleware))
		}
		if deps.QuizHandler != nil {
			deps.QuizHandler.RegisterCourseScoped(courses)
			deps.QuizHandler.Register(api.Group("/quizzes", jwtMiddleware))
			deps.QuizHandler.RegisterSubmissions(api.Group("/quiz-submissions", jwtMiddleware))
		}
		if deps.AssignmentHandler != nil {
			deps.AssignmentHandler.RegisterCourseScoped(courses)
			deps.AssignmentHandler.Register(api.Group("/assignments", jwtMiddleware))
			deps.AssignmentHandler.RegisterSubmissions(api.Group("/assignment-submissions", jwtMiddleware))
		}
		if deps.DiscussionHandler != nil {
			deps.DiscussionHandler.RegisterCourseScoped(courses)
			deps.DiscussionHandler.Register(api.Group("/discussion", jwtMiddleware))
			deps.DiscussionHandler.RegisterReplies(api.Group("/replies", jwtMiddleware))
		}
		if deps.AnnouncementHandler != nil {
			deps.AnnouncementHandler.RegisterCourseScoped(courses)
			deps.AnnouncementHandler.Register(api.Group("/announcements", jwtMiddleware))
		}
	}

	if deps.ProgressHandler != nil {
		me := api.Group("/me", jwtMiddleware)
		deps.ProgressHandler.Register(me)
	}

	if deps.CalendarHandler != nil {
		calendar := api.Group("/calendar", jwtMiddleware)
		deps.CalendarHandler.Register(calendar)
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(admin)
	}
	if deps.AnnouncementHandler != nil {
		deps.AnnouncementHandler.RegisterAdmin(admin.Group("/general-announcements"))
	}
}
