package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
)

// Course failure sentinels.
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrForbidden       = errors.New("operation not permitted")
	ErrAlreadyEnrolled = errors.New("student is already enrolled")
	ErrNotEnrolled     = errors.New("student is not enrolled in this course")
)

// CourseService orchestrates course and enrollment workflows.
type CourseService interface {
	List(ctx context.Context, actor authz.Actor) ([]dto.CourseResponse, error)
	Get(ctx context.Context, actor authz.Actor, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, actor authz.Actor, payload dto.CourseCreateRequest, file *multipart.FileHeader) (dto.CourseResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uint) error

	Enroll(ctx context.Context, actor authz.Actor, courseID uint) error
	Unenroll(ctx context.Context, actor authz.Actor, courseID uint) error
	RemoveStudent(ctx context.Context, actor authz.Actor, courseID, studentID uint) error
	ListStudents(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.UserResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	validator *validator.Validate
	store     FileStore
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courseRepo repository.CourseRepository, validate *validator.Validate, store FileStore, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courseRepo,
		validator: validate,
		store:     store,
		logger:    logger.With().Str("component", "course_service").Logger(),
		now:       time.Now,
	}
}

// List returns the courses visible to the actor: teachers see their own
// courses, students their enrolled ones, admins everything.
func (s *courseService) List(ctx context.Context, actor authz.Actor) ([]dto.CourseResponse, error) {
	var (
		courses []models.Course
		err     error
	)

	switch actor.Role {
	case models.RoleAdmin:
		courses, err = s.courses.List(ctx)
	case models.RoleTeacher:
		courses, err = s.courses.ListByTeacher(ctx, actor.ID)
	default:
		courses, err = s.courses.ListEnrolled(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, actor authz.Actor, id uint) (dto.CourseResponse, error) {
	course, res, err := s.loadCourse(ctx, actor, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return dto.CourseResponse{}, ErrForbidden
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, actor authz.Actor, payload dto.CourseCreateRequest, file *multipart.FileHeader) (dto.CourseResponse, error) {
	if actor.Role != models.RoleTeacher && actor.Role != models.RoleAdmin {
		return dto.CourseResponse{}, ErrForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:           payload.Title,
		Description:     payload.Description,
		Content:         payload.Content,
		CreatedByUserID: actor.ID,
	}

	if file != nil {
		path, err := s.saveAttachment(ctx, file)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.FilePath = path
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	created, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", created.ID).Uint("teacher_id", actor.ID).Msg("course created")

	return dto.NewCourseResponse(created), nil
}

func (s *courseService) Update(ctx context.Context, actor authz.Actor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, res, err := s.loadCourse(ctx, actor, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return dto.CourseResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}
	if payload.Content != nil {
		course.Content = *payload.Content
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course updated")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	_, res, err := s.loadCourse(ctx, actor, id)
	if err != nil {
		return err
	}

	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return ErrForbidden
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.logger.Info().Uint("course_id", id).Msg("course deleted")

	return nil
}

// Enroll adds the acting student to the course roster. The composite primary
// key on enrollments turns a concurrent double enroll into a duplicate-key
// error, reported the same as the pre-checked case.
func (s *courseService) Enroll(ctx context.Context, actor authz.Actor, courseID uint) error {
	if actor.Role != models.RoleStudent {
		return ErrForbidden
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, actor.ID, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	enrollment := models.Enrollment{UserID: actor.ID, CourseID: courseID}
	if err := s.courses.Enroll(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyEnrolled
		}
		return err
	}

	s.logger.Info().Uint("course_id", courseID).Uint("student_id", actor.ID).Msg("student enrolled")

	return nil
}

func (s *courseService) Unenroll(ctx context.Context, actor authz.Actor, courseID uint) error {
	if actor.Role != models.RoleStudent {
		return ErrForbidden
	}

	if err := s.courses.Unenroll(ctx, actor.ID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	s.logger.Info().Uint("course_id", courseID).Uint("student_id", actor.ID).Msg("student unenrolled")

	return nil
}

// RemoveStudent drops an enrollment on behalf of the course teacher.
func (s *courseService) RemoveStudent(ctx context.Context, actor authz.Actor, courseID, studentID uint) error {
	_, res, err := s.loadCourse(ctx, actor, courseID)
	if err != nil {
		return err
	}

	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return ErrForbidden
	}

	if err := s.courses.Unenroll(ctx, studentID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	s.logger.Info().Uint("course_id", courseID).Uint("student_id", studentID).Msg("student removed from course")

	return nil
}

func (s *courseService) ListStudents(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.UserResponse, error) {
	_, res, err := s.loadCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return nil, ErrForbidden
	}

	students, err := s.courses.ListStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(students), nil
}

// loadCourse fetches the course and assembles the authorization facts for it.
func (s *courseService) loadCourse(ctx context.Context, actor authz.Actor, id uint) (models.Course, authz.Resource, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, authz.Resource{}, ErrCourseNotFound
		}
		return models.Course{}, authz.Resource{}, err
	}

	res := authz.Resource{CourseOwnerID: course.CreatedByUserID}
	if actor.Role == models.RoleStudent {
		enrolled, err := s.courses.IsEnrolled(ctx, actor.ID, id)
		if err != nil {
			return models.Course{}, authz.Resource{}, err
		}
		res.Enrolled = enrolled
	}

	return course, res, nil
}

func (s *courseService) saveAttachment(ctx context.Context, file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	path, err := s.store.Save(ctx, file.Filename, reader)
	if err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	return path, nil
}
