package models

import "time"

// DiscussionPost is a top-level discussion topic inside a course.
type DiscussionPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Course  Course  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"author"`
	Replies []Reply `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
}

// Reply answers a discussion post. ParentReplyID supports nesting; nil marks
// a direct reply to the post.
type Reply struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"not null;index" json:"post_id"`
	AuthorID      uint      `gorm:"not null;index" json:"author_id"`
	ParentReplyID *uint     `json:"parent_reply_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}
