package dto

import (
	"time"

	"github.com/openacademy/academy-api/internal/models"
)

// CourseCreateRequest describes a new course.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"max=5000"`
	Content     string `json:"content"`
}

// CourseUpdateRequest updates course fields; nil fields stay unchanged.
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Content     *string `json:"content"`
}

// CourseResponse is returned to API clients when viewing courses.
type CourseResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	FilePath    string    `json:"file_path,omitempty"`
	Teacher     UserLite  `json:"teacher"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserLite summarizes an account without exposing its email.
type UserLite struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	response := CourseResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Content:     model.Content,
		FilePath:    model.FilePath,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Teacher.ID != 0 {
		response.Teacher = UserLite{ID: model.Teacher.ID, Username: model.Teacher.Username}
	} else {
		response.Teacher = UserLite{ID: model.CreatedByUserID}
	}

	return response
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(models []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(models))
	for _, course := range models {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
