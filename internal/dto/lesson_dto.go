package dto

import (
	"time"

	"github.com/openacademy/academy-api/internal/models"
)

// LessonCreateRequest describes a new lesson.
type LessonCreateRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=150"`
	Content string `json:"content" validate:"required"`
}

// LessonUpdateRequest updates lesson fields; nil fields stay unchanged.
type LessonUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=3,max=150"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// LessonResponse is returned to API clients when viewing lessons.
type LessonResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLessonResponse converts a Lesson model into a DTO.
func NewLessonResponse(model models.Lesson) LessonResponse {
	return LessonResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewLessonResponseSlice converts lesson models into DTOs.
func NewLessonResponseSlice(models []models.Lesson) []LessonResponse {
	responses := make([]LessonResponse, 0, len(models))
	for _, lesson := range models {
		responses = append(responses, NewLessonResponse(lesson))
	}

	return responses
}
