package dto

import "time"

// RoleUpdateRequest changes an account's role.
type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=admin teacher student"`
}

// GeneralAnnouncementCreateRequest describes a new site-wide announcement.
type GeneralAnnouncementCreateRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=150"`
	Content string `json:"content" validate:"required,min=1"`
}

// SystemEvent is one row of the admin activity timeline, merged from recent
// enrollments, submissions and discussion posts.
type SystemEvent struct {
	Kind       string    `json:"kind"`
	Actor      UserLite  `json:"actor"`
	CourseID   *uint     `json:"course_id,omitempty"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}
