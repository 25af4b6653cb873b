package dto

import (
	"time"

	"github.com/openacademy/academy-api/internal/models"
)

// AnnouncementCreateRequest describes a new course announcement.
type AnnouncementCreateRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=150"`
	Content string `json:"content" validate:"required,min=1"`
}

// AnnouncementUpdateRequest updates an announcement; nil fields stay
// unchanged.
type AnnouncementUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=3,max=150"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// AnnouncementResponse is returned when viewing announcements, both
// course-scoped and site-wide.
type AnnouncementResponse struct {
	ID        uint      `json:"id"`
	CourseID  *uint     `json:"course_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    UserLite  `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAnnouncementResponse converts a course announcement into a DTO.
func NewAnnouncementResponse(model models.Announcement) AnnouncementResponse {
	courseID := model.CourseID
	response := AnnouncementResponse{
		ID:        model.ID,
		CourseID:  &courseID,
		Title:     model.Title,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}

	if model.Author.ID != 0 {
		response.Author = UserLite{ID: model.Author.ID, Username: model.Author.Username}
	} else {
		response.Author = UserLite{ID: model.AuthorID}
	}

	return response
}

// NewAnnouncementResponseSlice converts announcement models into DTOs.
func NewAnnouncementResponseSlice(models []models.Announcement) []AnnouncementResponse {
	responses := make([]AnnouncementResponse, 0, len(models))
	for _, announcement := range models {
		responses = append(responses, NewAnnouncementResponse(announcement))
	}

	return responses
}

// NewGeneralAnnouncementResponse converts a site-wide announcement into a DTO.
func NewGeneralAnnouncementResponse(model models.GeneralAnnouncement) AnnouncementResponse {
	response := AnnouncementResponse{
		ID:        model.ID,
		Title:     model.Title,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}

	if model.Author.ID != 0 {
		response.Author = UserLite{ID: model.Author.ID, Username: model.Author.Username}
	} else {
		response.Author = UserLite{ID: model.AuthorID}
	}

	return response
}

// NewGeneralAnnouncementResponseSlice converts site-wide announcement models
// into DTOs.
func NewGeneralAnnouncementResponseSlice(models []models.GeneralAnnouncement) []AnnouncementResponse {
	responses := make([]AnnouncementResponse, 0, len(models))
	for _, announcement := range models {
		responses = append(responses, NewGeneralAnnouncementResponse(announcement))
	}

	return responses
}
