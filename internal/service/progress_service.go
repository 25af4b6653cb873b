package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
)

// PDFRenderer renders a progress report into a PDF document. The gofpdf
// implementation lives in pkg/pdfreport.
type PDFRenderer interface {
	Render(report dto.ProgressReport) ([]byte, error)
}

// ProgressService aggregates a student's standing across enrolled courses
// and exports it as JSON, CSV or PDF.
type ProgressService interface {
	Report(ctx context.Context, actor authz.Actor) (dto.ProgressReport, error)
	ExportCSV(ctx context.Context, actor authz.Actor) ([]byte, error)
	ExportPDF(ctx context.Context, actor authz.Actor) ([]byte, error)
}

type progressService struct {
	users                 repository.UserRepository
	courses               repository.CourseRepository
	assignments           repository.AssignmentRepository
	assignmentSubmissions repository.AssignmentSubmissionRepository
	quizzes               repository.QuizRepository
	quizSubmissions       repository.QuizSubmissionRepository
	lessons               repository.LessonRepository
	discussions           repository.DiscussionRepository
	renderer              PDFRenderer
	cache                 *redis.Client
	cacheTTL              time.Duration
	logger                zerolog.Logger
	now                   func() time.Time
}

// NewProgressService builds the progress aggregator.
func NewProgressService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	assignments repository.AssignmentRepository,
	assignmentSubmissions repository.AssignmentSubmissionRepository,
	quizzes repository.QuizRepository,
	quizSubmissions repository.QuizSubmissionRepository,
	lessons repository.LessonRepository,
	discussions repository.DiscussionRepository,
	renderer PDFRenderer,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) ProgressService {
	return &progressService{
		users:                 users,
		courses:               courses,
		assignments:           assignments,
		assignmentSubmissions: assignmentSubmissions,
		quizzes:               quizzes,
		quizSubmissions:       quizSubmissions,
		lessons:               lessons,
		discussions:           discussions,
		renderer:              renderer,
		cache:                 cache,
		cacheTTL:              cacheTTL,
		logger:                logger.With().Str("component", "progress_service").Logger(),
		now:                   time.Now,
	}
}

// Report assembles the dashboard payload, serving from cache when possible.
func (s *progressService) Report(ctx context.Context, actor authz.Actor) (dto.ProgressReport, error) {
	if !authz.Can(actor, authz.ActionViewOwnProgress, authz.Resource{}) {
		return dto.ProgressReport{}, ErrForbidden
	}

	cacheKey := fmt.Sprintf("progress:student:%d", actor.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var report dto.ProgressReport
			if unmarshalErr := json.Unmarshal([]byte(cached), &report); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", actor.ID).Msg("progress cache hit")
				return report, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read progress cache")
		}
	}

	report, err := s.buildReport(ctx, actor.ID)
	if err != nil {
		return dto.ProgressReport{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store progress cache")
			}
		}
	}

	return report, nil
}

// ExportCSV writes the report in a fixed column layout. Course-level columns
// appear only on each course's first row, and a course without assignments or
// quizzes produces no rows at all.
func (s *progressService) ExportCSV(ctx context.Context, actor authz.Actor) ([]byte, error) {
	report, err := s.Report(ctx, actor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Course", "Assignment", "Status", "Grade", "Quiz", "Quiz Score", "Lessons Total", "Discussion Posts", "Discussion Replies"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, course := range report.Courses {
		rowIndex := 0
		writeRow := func(assignmentTitle, status, grade, quizTitle, quizScore string) error {
			record := []string{"", assignmentTitle, status, grade, quizTitle, quizScore, "", "", ""}
			if rowIndex == 0 {
				record[0] = course.CourseTitle
				record[6] = strconv.Itoa(course.LessonsTotal)
				record[7] = strconv.Itoa(course.DiscussionPosts)
				record[8] = strconv.Itoa(course.DiscussionReplies)
			}
			rowIndex++
			return writer.Write(record)
		}

		for _, assignment := range course.Assignments {
			grade := "N/A"
			switch assignment.Status {
			case dto.ProgressStatusGraded:
				grade = strconv.FormatFloat(*assignment.Grade, 'f', -1, 64)
			case dto.ProgressStatusSubmitted:
				grade = ""
			}
			if err := writeRow(assignment.Title, assignment.Status, grade, "", "N/A"); err != nil {
				return nil, err
			}
		}

		for _, quiz := range course.Quizzes {
			score := "N/A"
			if quiz.Score != nil {
				score = strconv.Itoa(*quiz.Score)
			}
			if err := writeRow("", "N/A", "N/A", quiz.Title, score); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ExportPDF renders the same report through the configured renderer.
func (s *progressService) ExportPDF(ctx context.Context, actor authz.Actor) ([]byte, error) {
	report, err := s.Report(ctx, actor)
	if err != nil {
		return nil, err
	}

	return s.renderer.Render(report)
}

func (s *progressService) buildReport(ctx context.Context, studentID uint) (dto.ProgressReport, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressReport{}, ErrUserNotFound
		}
		return dto.ProgressReport{}, err
	}

	courses, err := s.courses.ListEnrolled(ctx, studentID)
	if err != nil {
		return dto.ProgressReport{}, err
	}

	report := dto.ProgressReport{
		StudentID:   studentID,
		Username:    student.Username,
		GeneratedAt: s.now(),
		Courses:     make([]dto.CourseProgress, 0, len(courses)),
	}

	for _, course := range courses {
		progress, err := s.buildCourseProgress(ctx, course, studentID)
		if err != nil {
			return dto.ProgressReport{}, err
		}
		report.Courses = append(report.Courses, progress)
	}

	return report, nil
}

func (s *progressService) buildCourseProgress(ctx context.Context, course models.Course, studentID uint) (dto.CourseProgress, error) {
	progress := dto.CourseProgress{
		CourseID:    course.ID,
		CourseTitle: course.Title,
	}

	assignments, err := s.assignments.ListByCourse(ctx, course.ID)
	if err != nil {
		return dto.CourseProgress{}, err
	}
	progress.Assignments = make([]dto.ProgressAssignment, 0, len(assignments))
	for _, assignment := range assignments {
		row := dto.ProgressAssignment{
			AssignmentID: assignment.ID,
			Title:        assignment.Title,
			Status:       dto.ProgressStatusNotSubmitted,
			DueDate:      assignment.DueDate,
		}

		submission, err := s.assignmentSubmissions.LatestByAssignmentAndStudent(ctx, assignment.ID, studentID)
		switch {
		case err == nil:
			submittedAt := submission.CreatedAt
			row.SubmittedAt = &submittedAt
			if submission.IsGraded() {
				row.Status = dto.ProgressStatusGraded
				row.Grade = submission.Grade
			} else {
				row.Status = dto.ProgressStatusSubmitted
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no attempt yet
		default:
			return dto.CourseProgress{}, err
		}

		progress.Assignments = append(progress.Assignments, row)
	}

	quizzes, err := s.quizzes.ListByCourse(ctx, course.ID)
	if err != nil {
		return dto.CourseProgress{}, err
	}
	progress.Quizzes = make([]dto.ProgressQuiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		questions, err := quiz.QuestionList()
		if err != nil {
			return dto.CourseProgress{}, err
		}

		row := dto.ProgressQuiz{
			QuizID:      quiz.ID,
			Title:       quiz.Title,
			Status:      dto.ProgressStatusNotSubmitted,
			TotalPoints: models.TotalPoints(questions),
		}

		submission, err := s.quizSubmissions.GetByQuizAndStudent(ctx, quiz.ID, studentID)
		switch {
		case err == nil:
			submittedAt := submission.CreatedAt
			row.SubmittedAt = &submittedAt
			score := submission.Score
			row.Score = &score
			if submission.IsGraded {
				row.Status = dto.ProgressStatusGraded
			} else {
				row.Status = dto.ProgressStatusSubmitted
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no attempt yet
		default:
			return dto.CourseProgress{}, err
		}

		progress.Quizzes = append(progress.Quizzes, row)
	}

	lessonCount, err := s.lessons.CountByCourse(ctx, course.ID)
	if err != nil {
		return dto.CourseProgress{}, err
	}
	progress.LessonsTotal = int(lessonCount)

	postCount, err := s.discussions.CountPostsByAuthor(ctx, course.ID, studentID)
	if err != nil {
		return dto.CourseProgress{}, err
	}
	progress.DiscussionPosts = int(postCount)

	replyCount, err := s.discussions.CountRepliesByAuthor(ctx, course.ID, studentID)
	if err != nil {
		return dto.CourseProgress{}, err
	}
	progress.DiscussionReplies = int(replyCount)

	return progress, nil
}
