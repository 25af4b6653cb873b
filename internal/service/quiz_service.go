package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/grading"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
)

// ErrQuizNotFound indicates a quiz could not be found.
var ErrQuizNotFound = errors.New("quiz not found")

// QuizService orchestrates quiz authoring workflows.
type QuizService interface {
	ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.QuizResponse, error)
	Get(ctx context.Context, actor authz.Actor, id uint) (dto.QuizResponse, error)
	Create(ctx context.Context, actor authz.Actor, courseID uint, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uint) error
}

type quizService struct {
	quizzes   repository.QuizRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(quizRepo repository.QuizRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizRepo,
		courses:   courseRepo,
		validator: validate,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
		now:       time.Now,
	}
}

func (s *quizService) ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.QuizResponse, error) {
	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return nil, ErrForbidden
	}

	quizzes, err := s.quizzes.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	reveal := authz.Can(actor, authz.ActionManageCourse, res)
	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		questions, err := quiz.QuestionList()
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewQuizResponse(quiz, questions, reveal))
	}

	return responses, nil
}

func (s *quizService) Get(ctx context.Context, actor authz.Actor, id uint) (dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, quiz.CourseID)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return dto.QuizResponse{}, ErrForbidden
	}

	questions, err := quiz.QuestionList()
	if err != nil {
		return dto.QuizResponse{}, err
	}

	reveal := authz.Can(actor, authz.ActionManageCourse, res)
	return dto.NewQuizResponse(quiz, questions, reveal), nil
}

func (s *quizService) Create(ctx context.Context, actor authz.Actor, courseID uint, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return dto.QuizResponse{}, ErrForbidden
	}

	questions := questionsFromPayload(payload.Questions)
	if err := grading.ValidateQuestions(questions); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz := models.Quiz{
		CourseID: courseID,
		Title:    payload.Title,
		DueDate:  payload.DueDate,
	}
	if err := quiz.SetQuestions(questions); err != nil {
		return dto.QuizResponse{}, err
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Uint("course_id", courseID).Int("questions", len(questions)).Msg("quiz created")

	return dto.NewQuizResponse(quiz, questions, true), nil
}

// Update replaces quiz fields. Replacing the question list does not touch
// existing submissions, which keep the snapshot taken when they were made.
func (s *quizService) Update(ctx context.Context, actor authz.Actor, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, quiz.CourseID)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return dto.QuizResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		quiz.Title = *payload.Title
	}
	if payload.DueDate != nil {
		quiz.DueDate = payload.DueDate
	}
	if payload.Questions != nil {
		questions := questionsFromPayload(payload.Questions)
		if err := grading.ValidateQuestions(questions); err != nil {
			return dto.QuizResponse{}, err
		}
		if err := quiz.SetQuestions(questions); err != nil {
			return dto.QuizResponse{}, err
		}
	}

	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	questions, err := quiz.QuestionList()
	if err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Msg("quiz updated")

	return dto.NewQuizResponse(quiz, questions, true), nil
}

// Delete removes the quiz and every submission made against it.
func (s *quizService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return err
	}

	res, err := courseResource(ctx, s.courses, actor, quiz.CourseID)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return ErrForbidden
	}

	if err := s.quizzes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return err
	}

	s.logger.Info().Uint("quiz_id", id).Msg("quiz deleted")

	return nil
}

func questionsFromPayload(payloads []dto.QuestionPayload) []models.Question {
	questions := make([]models.Question, 0, len(payloads))
	for _, payload := range payloads {
		questions = append(questions, models.Question{
			Question: payload.Question,
			Type:     payload.Type,
			Options:  payload.Options,
			Answer:   payload.Answer,
			Points:   payload.Points,
		})
	}
	return questions
}
