package models

import "time"

// Announcement is scoped to one course and authored by its teacher.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Course Course `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Author User   `gorm:"foreignKey:AuthorID" json:"author"`
}

// GeneralAnnouncement is site-wide and admin-authored.
type GeneralAnnouncement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}
