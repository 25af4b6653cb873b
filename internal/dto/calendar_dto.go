package dto

import (
	"time"

	"github.com/openacademy/academy-api/internal/models"
)

// Calendar entry kinds. Due-date entries are derived from assignments and
// quizzes; event entries come from stored calendar events.
const (
	CalendarEntryEvent         = "event"
	CalendarEntryAssignmentDue = "assignment_due"
	CalendarEntryQuizDue       = "quiz_due"
)

// CalendarEventCreateRequest describes a new manual calendar event.
type CalendarEventCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=255"`
	Description string    `json:"description" validate:"max=5000"`
	CourseID    *uint     `json:"course_id" validate:"omitempty,gt=0"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// CalendarFeedRequest bounds the feed window via the query string.
type CalendarFeedRequest struct {
	From time.Time `query:"from" validate:"required"`
	To   time.Time `query:"to" validate:"required,gtfield=From"`
}

// CalendarEntry is one item of the merged feed.
type CalendarEntry struct {
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CourseID    *uint     `json:"course_id,omitempty"`
	SourceID    uint      `json:"source_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// NewCalendarEventEntry converts a stored event into a feed entry.
func NewCalendarEventEntry(model models.CalendarEvent) CalendarEntry {
	return CalendarEntry{
		Kind:        CalendarEntryEvent,
		Title:       model.Title,
		Description: model.Description,
		CourseID:    model.CourseID,
		SourceID:    model.ID,
		StartTime:   model.StartTime,
		EndTime:     model.EndTime,
	}
}
