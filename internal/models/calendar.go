package models

import "time"

// CalendarEvent is a manually created event; due dates from assignments and
// quizzes are merged into the calendar feed at read time, not stored here.
type CalendarEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    *uint     `gorm:"index" json:"course_id"`
	AuthorID    uint      `gorm:"not null" json:"author_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
