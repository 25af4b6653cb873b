package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
)

// ErrLessonNotFound indicates a lesson could not be found.
var ErrLessonNotFound = errors.New("lesson not found")

// LessonService orchestrates lesson content workflows.
type LessonService interface {
	ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.LessonResponse, error)
	Get(ctx context.Context, actor authz.Actor, id uint) (dto.LessonResponse, error)
	Create(ctx context.Context, actor authz.Actor, courseID uint, payload dto.LessonCreateRequest) (dto.LessonResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, payload dto.LessonUpdateRequest) (dto.LessonResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uint) error
}

type lessonService struct {
	lessons   repository.LessonRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLessonService constructs a LessonService instance.
func NewLessonService(lessonRepo repository.LessonRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) LessonService {
	return &lessonService{
		lessons:   lessonRepo,
		courses:   courseRepo,
		validator: validate,
		logger:    logger.With().Str("component", "lesson_service").Logger(),
	}
}

func (s *lessonService) ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.LessonResponse, error) {
	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return nil, ErrForbidden
	}

	lessons, err := s.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewLessonResponseSlice(lessons), nil
}

func (s *lessonService) Get(ctx context.Context, actor authz.Actor, id uint) (dto.LessonResponse, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonResponse{}, ErrLessonNotFound
		}
		return dto.LessonResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, lesson.CourseID)
	if err != nil {
		return dto.LessonResponse{}, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return dto.LessonResponse{}, ErrForbidden
	}

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Create(ctx context.Context, actor authz.Actor, courseID uint, payload dto.LessonCreateRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return dto.LessonResponse{}, err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return dto.LessonResponse{}, ErrForbidden
	}

	lesson := models.Lesson{
		CourseID: courseID,
		Title:    payload.Title,
		Content:  payload.Content,
	}
	if err := s.lessons.Create(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	s.logger.Info().Uint("lesson_id", lesson.ID).Uint("course_id", courseID).Msg("lesson created")

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Update(ctx context.Context, actor authz.Actor, id uint, payload dto.LessonUpdateRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonResponse{}, ErrLessonNotFound
		}
		return dto.LessonResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, lesson.CourseID)
	if err != nil {
		return dto.LessonResponse{}, err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return dto.LessonResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		lesson.Title = *payload.Title
	}
	if payload.Content != nil {
		lesson.Content = *payload.Content
	}

	if err := s.lessons.Update(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	s.logger.Info().Uint("lesson_id", lesson.ID).Msg("lesson updated")

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	res, err := courseResource(ctx, s.courses, actor, lesson.CourseID)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return ErrForbidden
	}

	if err := s.lessons.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	s.logger.Info().Uint("lesson_id", id).Msg("lesson deleted")

	return nil
}

// courseResource fetches a course and assembles the authorization facts the
// capability checks need. Shared by the content services.
func courseResource(ctx context.Context, courses repository.CourseRepository, actor authz.Actor, courseID uint) (authz.Resource, error) {
	course, err := courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.Resource{}, ErrCourseNotFound
		}
		return authz.Resource{}, err
	}

	res := authz.Resource{CourseOwnerID: course.CreatedByUserID}
	if actor.Role == models.RoleStudent {
		enrolled, err := courses.IsEnrolled(ctx, actor.ID, courseID)
		if err != nil {
			return authz.Resource{}, err
		}
		res.Enrolled = enrolled
	}

	return res, nil
}
