package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Question types stored inside a quiz definition.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeOpenEnded      = "open_ended"
)

// ErrMalformedQuestions indicates the stored question payload cannot be
// decoded. Surfaced to callers as a data-integrity failure, never retried.
var ErrMalformedQuestions = errors.New("quiz question data is malformed")

// Question is one entry of a quiz's ordered question list. Multiple-choice
// questions carry their options and the designated correct option; open-ended
// questions are free text graded manually.
type Question struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer"`
	Points   int      `json:"points"`
}

// Quiz holds its question list as a JSON column rather than normalized rows.
// Edits replace the whole list; past submissions keep their own snapshot.
type Quiz struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CourseID  uint           `gorm:"not null;index" json:"course_id"`
	Title     string         `gorm:"size:100;not null" json:"title"`
	Questions datatypes.JSON `gorm:"type:json;not null" json:"-"`
	DueDate   *time.Time     `json:"due_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Course      Course           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Submissions []QuizSubmission `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// SetQuestions serializes the question list into the JSON storage column.
func (q *Quiz) SetQuestions(questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	q.Questions = datatypes.JSON(data)
	return nil
}

// QuestionList decodes the stored question payload.
func (q Quiz) QuestionList() ([]Question, error) {
	if len(q.Questions) == 0 {
		return nil, ErrMalformedQuestions
	}

	var questions []Question
	if err := json.Unmarshal(q.Questions, &questions); err != nil {
		return nil, ErrMalformedQuestions
	}

	return questions, nil
}

// TotalPoints sums the point values of every question.
func TotalPoints(questions []Question) int {
	total := 0
	for _, question := range questions {
		total += question.Points
	}
	return total
}

// Answer snapshots one question of the quiz at submission time together with
// the student's response. AwardedPoints stays nil for open-ended answers
// until a teacher grades them.
type Answer struct {
	Question        string  `json:"question"`
	Type            string  `json:"type"`
	SubmittedAnswer *string `json:"submitted_answer"`
	CorrectAnswer   string  `json:"correct_answer"`
	IsCorrect       bool    `json:"is_correct"`
	Points          int     `json:"points"`
	AwardedPoints   *int    `json:"awarded_points"`
}

// QuizSubmission records a student's single attempt at a quiz. The unique
// index on (quiz_id, student_id) guarantees at most one attempt per pair even
// when two requests race past the application-level existence check.
type QuizSubmission struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	QuizID    uint           `gorm:"not null;uniqueIndex:idx_quiz_student" json:"quiz_id"`
	StudentID uint           `gorm:"not null;uniqueIndex:idx_quiz_student" json:"student_id"`
	Score     int            `gorm:"not null" json:"score"`
	IsGraded  bool           `gorm:"not null;default:false" json:"is_graded"`
	Answers   datatypes.JSON `gorm:"type:json;not null" json:"-"`
	CreatedAt time.Time      `gorm:"index" json:"submitted_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Quiz    Quiz `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Student User `gorm:"foreignKey:StudentID" json:"-"`
}

// SetAnswers serializes the answer snapshot into the JSON storage column.
func (s *QuizSubmission) SetAnswers(answers []Answer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	s.Answers = datatypes.JSON(data)
	return nil
}

// AnswerList decodes the stored answer snapshot.
func (s QuizSubmission) AnswerList() ([]Answer, error) {
	if len(s.Answers) == 0 {
		return nil, ErrMalformedQuestions
	}

	var answers []Answer
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil, ErrMalformedQuestions
	}

	return answers, nil
}
