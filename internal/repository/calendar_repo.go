package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/models"
)

// CalendarRepository defines persistence operations for manual calendar
// events. Due-date events are derived from assignments and quizzes at read
// time and never stored here.
type CalendarRepository interface {
	ListBetween(ctx context.Context, courseIDs []uint, from, to time.Time) ([]models.CalendarEvent, error)
	GetByID(ctx context.Context, id uint) (models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id uint) error
}

type calendarRepository struct {
	db *gorm.DB
}

// NewCalendarRepository instantiates a GORM-backed repository.
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

// ListBetween returns events inside the window that are either site-wide
// (course_id IS NULL) or belong to one of the given courses.
func (r *calendarRepository) ListBetween(ctx context.Context, courseIDs []uint, from, to time.Time) ([]models.CalendarEvent, error) {
	query := r.db.WithContext(ctx).
		Where("start_time < ? AND end_time >= ?", to, from)
	if len(courseIDs) > 0 {
		query = query.Where("course_id IS NULL OR course_id IN ?", courseIDs)
	} else {
		query = query.Where("course_id IS NULL")
	}

	var events []models.CalendarEvent
	if err := query.Order("start_time ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *calendarRepository) GetByID(ctx context.Context, id uint) (models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return models.CalendarEvent{}, err
	}
	return event, nil
}

func (r *calendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *calendarRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *calendarRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CalendarEvent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
