package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacademy/academy-api/internal/config"
	"github.com/openacademy/academy-api/internal/database"
	"github.com/openacademy/academy-api/internal/handler"
	"github.com/openacademy/academy-api/internal/middleware"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
	"github.com/openacademy/academy-api/internal/router"
	"github.com/openacademy/academy-api/internal/service"
	"github.com/openacademy/academy-api/pkg/localstore"
	"github.com/openacademy/academy-api/pkg/pdfreport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Lesson{},
		&models.Quiz{},
		&models.QuizSubmission{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.DiscussionPost{},
		&models.Reply{},
		&models.Announcement{},
		&models.GeneralAnnouncement{},
		&models.CalendarEvent{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	store, err := localstore.New(cfg.UploadDir, logger)
	if err != nil {
		log.Fatalf("failed to prepare upload directory: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	quizSubmissionRepo := repository.NewQuizSubmissionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	assignmentSubmissionRepo := repository.NewAssignmentSubmissionRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	courseService := service.NewCourseService(courseRepo, validate, store, logger)
	lessonService := service.NewLessonService(lessonRepo, courseRepo, validate, logger)
	quizService := service.NewQuizService(quizRepo, courseRepo, validate, logger)
	quizSubmissionService := service.NewQuizSubmissionService(quizSubmissionRepo, quizRepo, courseRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, assignmentSubmissionRepo, courseRepo, validate, store, logger)
	discussionService := service.NewDiscussionService(discussionRepo, courseRepo, validate, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, courseRepo, validate, logger)
	calendarService := service.NewCalendarService(calendarRepo, assignmentRepo, quizRepo, courseRepo, validate, logger)
	adminService := service.NewAdminService(userRepo, courseRepo, quizSubmissionRepo, discussionRepo, validate, logger)
	progressService := service.NewProgressService(
		userRepo,
		courseRepo,
		assignmentRepo,
		assignmentSubmissionRepo,
		quizRepo,
		quizSubmissionRepo,
		lessonRepo,
		discussionRepo,
		pdfreport.New(),
		redisClient,
		cfg.ProgressCacheTTL,
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		LessonHandler:       handler.NewLessonHandler(lessonService, logger),
		QuizHandler:         handler.NewQuizHandler(quizService, quizSubmissionService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, logger),
		DiscussionHandler:   handler.NewDiscussionHandler(discussionService, logger),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService, logger),
		ProgressHandler:     handler.NewProgressHandler(progressService, logger),
		CalendarHandler:     handler.NewCalendarHandler(calendarService, logger),
		AdminHandler:        handler.NewAdminHandler(adminService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
