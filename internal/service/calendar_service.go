package service

import (
	"context"
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
)

// ErrEventNotFound indicates a calendar event could not be found.
var ErrEventNotFound = errors.New("calendar event not found")

// CalendarService builds the merged calendar feed and manages manual events.
type CalendarService interface {
	Feed(ctx context.Context, actor authz.Actor, window dto.CalendarFeedRequest) ([]dto.CalendarEntry, error)
	CreateEvent(ctx context.Context, actor authz.Actor, payload dto.CalendarEventCreateRequest) (dto.CalendarEntry, error)
	DeleteEvent(ctx context.Context, actor authz.Actor, id uint) error
}

type calendarService struct {
	events      repository.CalendarRepository
	assignments repository.AssignmentRepository
	quizzes     repository.QuizRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewCalendarService constructs a CalendarService instance.
func NewCalendarService(eventRepo repository.CalendarRepository, assignmentRepo repository.AssignmentRepository, quizRepo repository.QuizRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CalendarService {
	return &calendarService{
		events:      eventRepo,
		assignments: assignmentRepo,
		quizzes:     quizRepo,
		courses:     courseRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "calendar_service").Logger(),
	}
}

// Feed merges stored events with assignment and quiz due dates from the
// actor's visible courses, sorted by start time.
func (s *calendarService) Feed(ctx context.Context, actor authz.Actor, window dto.CalendarFeedRequest) ([]dto.CalendarEntry, error) {
	if err := s.validator.Struct(window); err != nil {
		return nil, err
	}

	courseIDs, err := s.visibleCourseIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListBetween(ctx, courseIDs, window.From, window.To)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.CalendarEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, dto.NewCalendarEventEntry(event))
	}

	assignments, err := s.assignments.ListDueBetween(ctx, courseIDs, window.From, window.To)
	if err != nil {
		return nil, err
	}
	for _, assignment := range assignments {
		courseID := assignment.CourseID
		entries = append(entries, dto.CalendarEntry{
			Kind:      dto.CalendarEntryAssignmentDue,
			Title:     assignment.Title,
			CourseID:  &courseID,
			SourceID:  assignment.ID,
			StartTime: assignment.DueDate,
			EndTime:   assignment.DueDate,
		})
	}

	quizzes, err := s.quizzes.ListDueBetween(ctx, courseIDs, window.From, window.To)
	if err != nil {
		return nil, err
	}
	for _, quiz := range quizzes {
		if quiz.DueDate == nil {
			continue
		}
		courseID := quiz.CourseID
		entries = append(entries, dto.CalendarEntry{
			Kind:      dto.CalendarEntryQuizDue,
			Title:     quiz.Title,
			CourseID:  &courseID,
			SourceID:  quiz.ID,
			StartTime: *quiz.DueDate,
			EndTime:   *quiz.DueDate,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})

	return entries, nil
}

func (s *calendarService) CreateEvent(ctx context.Context, actor authz.Actor, payload dto.CalendarEventCreateRequest) (dto.CalendarEntry, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CalendarEntry{}, err
	}

	if payload.CourseID != nil {
		res, err := courseResource(ctx, s.courses, actor, *payload.CourseID)
		if err != nil {
			return dto.CalendarEntry{}, err
		}
		if !authz.Can(actor, authz.ActionManageCourse, res) {
			return dto.CalendarEntry{}, ErrForbidden
		}
	} else if actor.Role != models.RoleAdmin {
		// site-wide events are admin only
		return dto.CalendarEntry{}, ErrForbidden
	}

	event := models.CalendarEvent{
		CourseID:    payload.CourseID,
		AuthorID:    actor.ID,
		Title:       payload.Title,
		Description: payload.Description,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
	}
	if err := s.events.Create(ctx, &event); err != nil {
		return dto.CalendarEntry{}, err
	}

	s.logger.Info().Uint("event_id", event.ID).Msg("calendar event created")

	return dto.NewCalendarEventEntry(event), nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, actor authz.Actor, id uint) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	if !authz.Can(actor, authz.ActionManageOwnContent, authz.Resource{AuthorID: event.AuthorID}) {
		return ErrForbidden
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	s.logger.Info().Uint("event_id", id).Msg("calendar event deleted")

	return nil
}

func (s *calendarService) visibleCourseIDs(ctx context.Context, actor authz.Actor) ([]uint, error) {
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

	ids := make([]uint, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}

	return ids, nil
}
