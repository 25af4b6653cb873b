package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/config"
	"github.com/openacademy/academy-api/internal/handler"
	"github.com/openacademy/academy-api/internal/middleware"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
	"github.com/openacademy/academy-api/internal/router"
	"github.com/openacademy/academy-api/internal/service"
	"github.com/openacademy/academy-api/pkg/pdfreport"
)

const testSecret = "handler-test-secret"

type testFileStore struct{}

func (s *testFileStore) Save(_ context.Context, filename string, _ io.Reader) (string, error) {
	return "uploads/" + filename, nil
}

func (s *testFileStore) Remove(_ context.Context, _ string) error {
	return nil
}

// envelope mirrors the utils.APIResponse wrapper with the data left raw so
// each test can decode its own payload type.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
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
	))

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()
	store := &testFileStore{}

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

	authService := service.NewAuthService(userRepo, validate, testSecret, time.Hour, logger)
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
		cache,
		time.Minute,
		logger,
	)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Academy API", JWTSecret: testSecret}, router.Dependencies{
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
		JWTMiddleware:       middleware.JWTProtected(testSecret),
	})

	return app, db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, user.SetPassword("correct-horse-9"))
	require.NoError(t, db.Create(&user).Error)

	return user
}

func signToken(t *testing.T, user models.User) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": user.Role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response, out any) envelope {
	t.Helper()

	var wrapped envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&wrapped))
	if out != nil {
		require.NoError(t, json.Unmarshal(wrapped.Data, out))
	}

	return wrapped
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
