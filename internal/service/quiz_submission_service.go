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

// Quiz submission failure sentinels.
var (
	ErrQuizSubmissionNotFound = errors.New("quiz submission not found")
	ErrAlreadySubmitted       = errors.New("quiz has already been submitted")
	ErrQuizPastDue            = errors.New("quiz is past its due date")
)

// QuizSubmissionService records attempts and reconciles manual grades.
type QuizSubmissionService interface {
	Submit(ctx context.Context, actor authz.Actor, quizID uint, payload dto.QuizSubmitRequest) (dto.QuizSubmissionResponse, error)
	Grade(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.QuizGradeRequest) (dto.QuizSubmissionResponse, error)
	Get(ctx context.Context, actor authz.Actor, submissionID uint) (dto.QuizSubmissionResponse, error)
	ListByQuiz(ctx context.Context, actor authz.Actor, quizID uint) ([]dto.QuizSubmissionResponse, error)
}

type quizSubmissionService struct {
	submissions repository.QuizSubmissionRepository
	quizzes     repository.QuizRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewQuizSubmissionService constructs a QuizSubmissionService instance.
func NewQuizSubmissionService(subRepo repository.QuizSubmissionRepository, quizRepo repository.QuizRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) QuizSubmissionService {
	return &quizSubmissionService{
		submissions: subRepo,
		quizzes:     quizRepo,
		courses:     courseRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "quiz_submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit records a student's single attempt. Multiple-choice answers are
// scored immediately by exact match; open-ended answers wait for a teacher.
// The attempt is stored with a snapshot of the questions as they were at
// submission time.
func (s *quizSubmissionService) Submit(ctx context.Context, actor authz.Actor, quizID uint, payload dto.QuizSubmitRequest) (dto.QuizSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizSubmissionResponse{}, ErrQuizNotFound
		}
		return dto.QuizSubmissionResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, quiz.CourseID)
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}
	if !authz.Can(actor, authz.ActionSubmitQuiz, res) || !res.Enrolled {
		if actor.Role != models.RoleStudent {
			return dto.QuizSubmissionResponse{}, ErrForbidden
		}
		return dto.QuizSubmissionResponse{}, ErrNotEnrolled
	}

	if quiz.DueDate != nil && s.now().After(*quiz.DueDate) {
		return dto.QuizSubmissionResponse{}, ErrQuizPastDue
	}

	if _, err := s.submissions.GetByQuizAndStudent(ctx, quizID, actor.ID); err == nil {
		return dto.QuizSubmissionResponse{}, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.QuizSubmissionResponse{}, err
	}

	questions, err := quiz.QuestionList()
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	result, err := grading.Score(questions, payload.Answers)
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	submission := models.QuizSubmission{
		QuizID:    quizID,
		StudentID: actor.ID,
		Score:     result.Score,
		IsGraded:  result.Graded,
	}
	if err := submission.SetAnswers(result.Answers); err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	// The unique index on (quiz_id, student_id) closes the race between the
	// existence check above and this insert.
	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.QuizSubmissionResponse{}, ErrAlreadySubmitted
		}
		return dto.QuizSubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("quiz_id", quizID).
		Uint("student_id", actor.ID).
		Int("score", result.Score).
		Bool("is_graded", result.Graded).
		Msg("quiz submitted")

	return dto.NewQuizSubmissionResponse(submission, result.Answers, false), nil
}

// Grade merges the teacher's awarded points for open-ended questions into the
// stored answer snapshot and recomputes the total score.
func (s *quizSubmissionService) Grade(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.QuizGradeRequest) (dto.QuizSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	submission, res, err := s.loadSubmission(ctx, actor, submissionID)
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	if !authz.Can(actor, authz.ActionGradeSubmission, res) {
		return dto.QuizSubmissionResponse{}, ErrForbidden
	}

	answers, err := submission.AnswerList()
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	merged, total, err := grading.Reconcile(answers, payload.AwardedPoints)
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	submission.Score = total
	submission.IsGraded = true
	if err := submission.SetAnswers(merged); err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Int("score", total).
		Msg("quiz submission graded")

	return dto.NewQuizSubmissionResponse(submission, merged, true), nil
}

func (s *quizSubmissionService) Get(ctx context.Context, actor authz.Actor, submissionID uint) (dto.QuizSubmissionResponse, error) {
	submission, res, err := s.loadSubmission(ctx, actor, submissionID)
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	if !authz.Can(actor, authz.ActionViewSubmission, res) {
		return dto.QuizSubmissionResponse{}, ErrForbidden
	}

	answers, err := submission.AnswerList()
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	reveal := authz.Can(actor, authz.ActionGradeSubmission, res)
	return dto.NewQuizSubmissionResponse(submission, answers, reveal), nil
}

func (s *quizSubmissionService) ListByQuiz(ctx context.Context, actor authz.Actor, quizID uint) ([]dto.QuizSubmissionResponse, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	res, err := courseResource(ctx, s.courses, actor, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ActionGradeSubmission, res) {
		return nil, ErrForbidden
	}

	submissions, err := s.submissions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.QuizSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		answers, err := submission.AnswerList()
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewQuizSubmissionResponse(submission, answers, true))
	}

	return responses, nil
}

func (s *quizSubmissionService) loadSubmission(ctx context.Context, actor authz.Actor, id uint) (models.QuizSubmission, authz.Resource, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.QuizSubmission{}, authz.Resource{}, ErrQuizSubmissionNotFound
		}
		return models.QuizSubmission{}, authz.Resource{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, submission.Quiz.CourseID)
	if err != nil {
		return models.QuizSubmission{}, authz.Resource{}, err
	}
	res.StudentID = submission.StudentID

	return submission, res, nil
}

