package models

import "time"

// Assignment is a graded deliverable with a hard due date and a bounded
// number of attempts per student.
type Assignment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CourseID       uint      `gorm:"not null;index" json:"course_id"`
	Title          string    `gorm:"size:150;not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	DueDate        time.Time `gorm:"not null" json:"due_date"`
	FilePath       string    `gorm:"size:200" json:"file_path"`
	MaxSubmissions int       `gorm:"not null;default:1" json:"max_submissions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Course      Course                 `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Submissions []AssignmentSubmission `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsPastDue returns true when the deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}

// AssignmentSubmission is one uploaded attempt. Grade stays nil until a
// teacher grades it.
type AssignmentSubmission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;index" json:"assignment_id"`
	StudentID    uint      `gorm:"not null;index" json:"student_id"`
	FilePath     string    `gorm:"size:200;not null" json:"file_path"`
	Grade        *float64  `json:"grade"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time `gorm:"index" json:"submitted_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Assignment Assignment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Student    User       `gorm:"foreignKey:StudentID" json:"-"`
}

// IsGraded reports whether a grade has been recorded.
func (s AssignmentSubmission) IsGraded() bool {
	return s.Grade != nil
}
