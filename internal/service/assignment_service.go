package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
)

// Assignment failure sentinels.
var (
	ErrAssignmentNotFound           = errors.New("assignment not found")
	ErrAssignmentSubmissionNotFound = errors.New("assignment submission not found")
	ErrAssignmentPastDue            = errors.New("assignment is past its due date")
	ErrSubmissionLimitReached       = errors.New("submission limit reached for this assignment")
	ErrUnsupportedFileType          = errors.New("unsupported file type")
	ErrFileRequired                 = errors.New("submission file is required")
)

// AssignmentService orchestrates assignment and submission workflows.
type AssignmentService interface {
	ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, actor authz.Actor, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, actor authz.Actor, courseID uint, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uint) error

	SubmitWork(ctx context.Context, actor authz.Actor, assignmentID uint, file *multipart.FileHeader) (dto.AssignmentSubmissionResponse, error)
	GradeWork(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.AssignmentGradeRequest) (dto.AssignmentSubmissionResponse, error)
	ListSubmissions(ctx context.Context, actor authz.Actor, assignmentID uint) ([]dto.AssignmentSubmissionResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.AssignmentSubmissionRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	store       FileStore
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignmentRepo repository.AssignmentRepository, subRepo repository.AssignmentSubmissionRepository, courseRepo repository.CourseRepository, validate *validator.Validate, store FileStore, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignmentRepo,
		submissions: subRepo,
		courses:     courseRepo,
		validator:   validate,
		store:       store,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.AssignmentResponse, error) {
	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return nil, ErrForbidden
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, actor authz.Actor, id uint) (dto.AssignmentResponse, error) {
	assignment, res, err := s.loadAssignment(ctx, actor, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return dto.AssignmentResponse{}, ErrForbidden
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, actor authz.Actor, courseID uint, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return dto.AssignmentResponse{}, ErrForbidden
	}

	assignment := models.Assignment{
		CourseID:       courseID,
		Title:          payload.Title,
		Description:    payload.Description,
		DueDate:        payload.DueDate,
		MaxSubmissions: payload.MaxSubmissions,
	}

	if file != nil {
		path, err := s.saveUpload(ctx, file)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.FilePath = path
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("course_id", courseID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, actor authz.Actor, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, res, err := s.loadAssignment(ctx, actor, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return dto.AssignmentResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.DueDate != nil {
		assignment.DueDate = *payload.DueDate
	}
	if payload.MaxSubmissions != nil {
		assignment.MaxSubmissions = *payload.MaxSubmissions
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	_, res, err := s.loadAssignment(ctx, actor, id)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.ActionManageCourse, res) {
		return ErrForbidden
	}

	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")

	return nil
}

// SubmitWork stores a student's uploaded attempt. Attempts past the due date
// or beyond the assignment's attempt cap are rejected.
func (s *assignmentService) SubmitWork(ctx context.Context, actor authz.Actor, assignmentID uint, file *multipart.FileHeader) (dto.AssignmentSubmissionResponse, error) {
	assignment, res, err := s.loadAssignment(ctx, actor, assignmentID)
	if err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	if actor.Role != models.RoleStudent {
		return dto.AssignmentSubmissionResponse{}, ErrForbidden
	}
	if !res.Enrolled {
		return dto.AssignmentSubmissionResponse{}, ErrNotEnrolled
	}

	if assignment.IsPastDue(s.now()) {
		return dto.AssignmentSubmissionResponse{}, ErrAssignmentPastDue
	}

	count, err := s.submissions.CountByAssignmentAndStudent(ctx, assignmentID, actor.ID)
	if err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}
	if count >= int64(assignment.MaxSubmissions) {
		return dto.AssignmentSubmissionResponse{}, ErrSubmissionLimitReached
	}

	if file == nil {
		return dto.AssignmentSubmissionResponse{}, ErrFileRequired
	}
	if err := validateUploadType(file); err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	path, err := s.saveUpload(ctx, file)
	if err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	submission := models.AssignmentSubmission{
		AssignmentID: assignmentID,
		StudentID:    actor.ID,
		FilePath:     path,
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignmentID).
		Uint("student_id", actor.ID).
		Int64("attempt", count+1).
		Msg("assignment submitted")

	return dto.NewAssignmentSubmissionResponse(submission), nil
}

// GradeWork records a grade and optional feedback on an attempt.
func (s *assignmentService) GradeWork(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.AssignmentGradeRequest) (dto.AssignmentSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentSubmissionResponse{}, ErrAssignmentSubmissionNotFound
		}
		return dto.AssignmentSubmissionResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, submission.Assignment.CourseID)
	if err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}
	res.StudentID = submission.StudentID
	if !authz.Can(actor, authz.ActionGradeSubmission, res) {
		return dto.AssignmentSubmissionResponse{}, ErrForbidden
	}

	grade := payload.Grade
	submission.Grade = &grade
	submission.Feedback = payload.Feedback

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Float64("grade", grade).
		Msg("assignment submission graded")

	return dto.NewAssignmentSubmissionResponse(submission), nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, actor authz.Actor, assignmentID uint) ([]dto.AssignmentSubmissionResponse, error) {
	_, res, err := s.loadAssignment(ctx, actor, assignmentID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ActionGradeSubmission, res) {
		return nil, ErrForbidden
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentSubmissionResponseSlice(submissions), nil
}

func (s *assignmentService) loadAssignment(ctx context.Context, actor authz.Actor, id uint) (models.Assignment, authz.Resource, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, authz.Resource{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, authz.Resource{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, assignment.CourseID)
	if err != nil {
		return models.Assignment{}, authz.Resource{}, err
	}

	return assignment, res, nil
}

func (s *assignmentService) saveUpload(ctx context.Context, file *multipart.FileHeader) (string, error) {
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

func validateUploadType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain"}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedFileType, mime.String())
}
