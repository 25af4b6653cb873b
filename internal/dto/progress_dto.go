package dto

import "time"

// Progress item statuses shown on the student dashboard and in exports.
const (
	ProgressStatusNotSubmitted = "Not Submitted"
	ProgressStatusSubmitted    = "Submitted"
	ProgressStatusGraded       = "Graded"
)

// ProgressAssignment is the per-assignment row of a course progress block.
type ProgressAssignment struct {
	AssignmentID uint       `json:"assignment_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Grade        *float64   `json:"grade"`
	DueDate      time.Time  `json:"due_date"`
	SubmittedAt  *time.Time `json:"submitted_at"`
}

// ProgressQuiz is the per-quiz row of a course progress block.
type ProgressQuiz struct {
	QuizID      uint       `json:"quiz_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Score       *int       `json:"score"`
	TotalPoints int        `json:"total_points"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// CourseProgress aggregates one enrolled course for a student.
type CourseProgress struct {
	CourseID          uint                 `json:"course_id"`
	CourseTitle       string               `json:"course_title"`
	Assignments       []ProgressAssignment `json:"assignments"`
	Quizzes           []ProgressQuiz       `json:"quizzes"`
	LessonsTotal      int                  `json:"lessons_total"`
	DiscussionPosts   int                  `json:"discussion_posts"`
	DiscussionReplies int                  `json:"discussion_replies"`
}

// ProgressReport is the full dashboard payload for one student.
type ProgressReport struct {
	StudentID   uint             `json:"student_id"`
	Username    string           `json:"username"`
	GeneratedAt time.Time        `json:"generated_at"`
	Courses     []CourseProgress `json:"courses"`
}
