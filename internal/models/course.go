package models

import "time"

// Course is the central unit of content; the creating teacher owns it.
type Course struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:120;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Content         string    `gorm:"type:text" json:"content"`
	FilePath        string    `gorm:"size:300" json:"file_path"`
	CreatedByUserID uint      `gorm:"not null;index" json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Teacher User `gorm:"foreignKey:CreatedByUserID" json:"teacher"`
}

// Enrollment joins a student to a course. The composite primary key makes a
// second enrollment for the same pair a constraint violation rather than a
// silent duplicate.
type Enrollment struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CourseID  uint      `gorm:"primaryKey" json:"course_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
