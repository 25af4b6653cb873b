package dto

import (
	"time"

	"github.com/openacademy/academy-api/internal/models"
)

// AssignmentCreateRequest describes the multipart payload for a new
// assignment. The attachment file is optional and handled separately.
type AssignmentCreateRequest struct {
	Title          string    `form:"title" validate:"required,min=3,max=150"`
	Description    string    `form:"description" validate:"required"`
	DueDate        time.Time `form:"due_date" validate:"required"`
	MaxSubmissions int       `form:"max_submissions" validate:"required,gte=1,lte=10"`
}

// AssignmentUpdateRequest updates assignment fields; nil fields stay
// unchanged.
type AssignmentUpdateRequest struct {
	Title          *string    `json:"title" validate:"omitempty,min=3,max=150"`
	Description    *string    `json:"description" validate:"omitempty,min=1"`
	DueDate        *time.Time `json:"due_date"`
	MaxSubmissions *int       `json:"max_submissions" validate:"omitempty,gte=1,lte=10"`
}

// AssignmentGradeRequest records a grade and optional feedback on an
// uploaded attempt.
type AssignmentGradeRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0,lte=100"`
	Feedback string  `json:"feedback" validate:"max=5000"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID             uint      `json:"id"`
	CourseID       uint      `json:"course_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DueDate        time.Time `json:"due_date"`
	FilePath       string    `json:"file_path,omitempty"`
	MaxSubmissions int       `json:"max_submissions"`
	CreatedAt      time.Time `json:"created_at"`
}

// AssignmentSubmissionResponse is returned when viewing an uploaded attempt.
type AssignmentSubmissionResponse struct {
	ID           uint      `json:"id"`
	AssignmentID uint      `json:"assignment_id"`
	StudentID    uint      `json:"student_id"`
	Student      UserLite  `json:"student"`
	FilePath     string    `json:"file_path"`
	Grade        *float64  `json:"grade"`
	Feedback     string    `json:"feedback"`
	IsGraded     bool      `json:"is_graded"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:             model.ID,
		CourseID:       model.CourseID,
		Title:          model.Title,
		Description:    model.Description,
		DueDate:        model.DueDate,
		FilePath:       model.FilePath,
		MaxSubmissions: model.MaxSubmissions,
		CreatedAt:      model.CreatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(models []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(models))
	for _, assignment := range models {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

// NewAssignmentSubmissionResponse converts an AssignmentSubmission model into
// a DTO.
func NewAssignmentSubmissionResponse(model models.AssignmentSubmission) AssignmentSubmissionResponse {
	response := AssignmentSubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		FilePath:     model.FilePath,
		Grade:        model.Grade,
		Feedback:     model.Feedback,
		IsGraded:     model.IsGraded(),
		SubmittedAt:  model.CreatedAt,
	}

	if model.Student.ID != 0 {
		response.Student = UserLite{ID: model.Student.ID, Username: model.Student.Username}
	} else {
		response.Student = UserLite{ID: model.StudentID}
	}

	return response
}

// NewAssignmentSubmissionResponseSlice converts submission models into DTOs.
func NewAssignmentSubmissionResponseSlice(models []models.AssignmentSubmission) []AssignmentSubmissionResponse {
	responses := make([]AssignmentSubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewAssignmentSubmissionResponse(submission))
	}

	return responses
}
