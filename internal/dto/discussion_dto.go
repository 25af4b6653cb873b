package dto

import (
	"time"

	"github.com/openacademy/academy-api/internal/models"
)

// DiscussionPostCreateRequest describes a new discussion topic.
type DiscussionPostCreateRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=255"`
	Content string `json:"content" validate:"required,min=1"`
}

// DiscussionPostUpdateRequest updates a topic; nil fields stay unchanged.
type DiscussionPostUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=3,max=255"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// ReplyCreateRequest describes a reply to a post or to another reply.
type ReplyCreateRequest struct {
	Content       string `json:"content" validate:"required,min=1"`
	ParentReplyID *uint  `json:"parent_reply_id" validate:"omitempty,gt=0"`
}

// ReplyUpdateRequest edits an existing reply.
type ReplyUpdateRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// DiscussionPostResponse is returned when viewing a topic.
type DiscussionPostResponse struct {
	ID         uint            `json:"id"`
	CourseID   uint            `json:"course_id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	Author     UserLite        `json:"author"`
	ReplyCount int             `json:"reply_count"`
	Replies    []ReplyResponse `json:"replies,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ReplyResponse is one reply inside a topic's thread.
type ReplyResponse struct {
	ID            uint      `json:"id"`
	PostID        uint      `json:"post_id"`
	ParentReplyID *uint     `json:"parent_reply_id"`
	Content       string    `json:"content"`
	Author        UserLite  `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewDiscussionPostResponse converts a post model into a DTO. Replies are
// included only when preloaded.
func NewDiscussionPostResponse(model models.DiscussionPost) DiscussionPostResponse {
	response := DiscussionPostResponse{
		ID:         model.ID,
		CourseID:   model.CourseID,
		Title:      model.Title,
		Content:    model.Content,
		ReplyCount: len(model.Replies),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}

	if model.Author.ID != 0 {
		response.Author = UserLite{ID: model.Author.ID, Username: model.Author.Username}
	} else {
		response.Author = UserLite{ID: model.AuthorID}
	}

	if len(model.Replies) > 0 {
		replies := make([]ReplyResponse, 0, len(model.Replies))
		for _, reply := range model.Replies {
			replies = append(replies, NewReplyResponse(reply))
		}
		response.Replies = replies
	}

	return response
}

// NewDiscussionPostResponseSlice converts post models into DTOs.
func NewDiscussionPostResponseSlice(models []models.DiscussionPost) []DiscussionPostResponse {
	responses := make([]DiscussionPostResponse, 0, len(models))
	for _, post := range models {
		responses = append(responses, NewDiscussionPostResponse(post))
	}

	return responses
}

// NewReplyResponse converts a reply model into a DTO.
func NewReplyResponse(model models.Reply) ReplyResponse {
	response := ReplyResponse{
		ID:            model.ID,
		PostID:        model.PostID,
		ParentReplyID: model.ParentReplyID,
		Content:       model.Content,
		CreatedAt:     model.CreatedAt,
	}

	if model.Author.ID != 0 {
		response.Author = UserLite{ID: model.Author.ID, Username: model.Author.Username}
	} else {
		response.Author = UserLite{ID: model.AuthorID}
	}

	return response
}
