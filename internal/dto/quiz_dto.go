package dto

import (
	"time"

	"github.com/openacademy/academy-api/internal/models"
)

// QuestionPayload is one question inside a quiz create or update request.
type QuestionPayload struct {
	Question string   `json:"question" validate:"required,min=3"`
	Type     string   `json:"type" validate:"required,oneof=multiple_choice open_ended"`
	Options  []string `json:"options" validate:"omitempty,min=2,dive,required"`
	Answer   string   `json:"answer"`
	Points   int      `json:"points" validate:"required,gt=0"`
}

// QuizCreateRequest describes a new quiz with its full question list.
type QuizCreateRequest struct {
	Title     string            `json:"title" validate:"required,min=3,max=100"`
	DueDate   *time.Time        `json:"due_date"`
	Questions []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

// QuizUpdateRequest replaces quiz fields. A non-nil Questions replaces the
// whole question list; existing submissions keep their snapshot.
type QuizUpdateRequest struct {
	Title     *string           `json:"title" validate:"omitempty,min=3,max=100"`
	DueDate   *time.Time        `json:"due_date"`
	Questions []QuestionPayload `json:"questions" validate:"omitempty,min=1,dive"`
}

// QuizSubmitRequest carries a student's responses keyed by question index.
type QuizSubmitRequest struct {
	Answers map[int]string `json:"answers" validate:"required"`
}

// QuizGradeRequest carries the teacher's awarded points for open-ended
// questions, keyed by question index.
type QuizGradeRequest struct {
	AwardedPoints map[int]int `json:"awarded_points" validate:"required"`
}

// QuestionView is a question as shown to clients. Answer is populated only
// for callers allowed to see the answer key.
type QuestionView struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Points   int      `json:"points"`
}

// QuizResponse is returned to API clients when viewing quizzes.
type QuizResponse struct {
	ID          uint           `json:"id"`
	CourseID    uint           `json:"course_id"`
	Title       string         `json:"title"`
	DueDate     *time.Time     `json:"due_date"`
	TotalPoints int            `json:"total_points"`
	Questions   []QuestionView `json:"questions"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AnswerView is one graded answer inside a submission response.
type AnswerView struct {
	Question        string  `json:"question"`
	Type            string  `json:"type"`
	SubmittedAnswer *string `json:"submitted_answer"`
	CorrectAnswer   string  `json:"correct_answer,omitempty"`
	IsCorrect       bool    `json:"is_correct"`
	Points          int     `json:"points"`
	AwardedPoints   *int    `json:"awarded_points"`
}

// QuizSubmissionResponse is returned when viewing a quiz attempt.
type QuizSubmissionResponse struct {
	ID          uint         `json:"id"`
	QuizID      uint         `json:"quiz_id"`
	StudentID   uint         `json:"student_id"`
	Student     UserLite     `json:"student"`
	Score       int          `json:"score"`
	TotalPoints int          `json:"total_points"`
	IsGraded    bool         `json:"is_graded"`
	Answers     []AnswerView `json:"answers"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// NewQuizResponse converts a quiz and its decoded questions into a DTO. Set
// revealAnswers when the caller may see the answer key.
func NewQuizResponse(model models.Quiz, questions []models.Question, revealAnswers bool) QuizResponse {
	views := make([]QuestionView, 0, len(questions))
	for _, question := range questions {
		view := QuestionView{
			Question: question.Question,
			Type:     question.Type,
			Options:  question.Options,
			Points:   question.Points,
		}
		if revealAnswers {
			view.Answer = question.Answer
		}
		views = append(views, view)
	}

	return QuizResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		Title:       model.Title,
		DueDate:     model.DueDate,
		TotalPoints: models.TotalPoints(questions),
		Questions:   views,
		CreatedAt:   model.CreatedAt,
	}
}

// NewQuizSubmissionResponse converts an attempt and its decoded answers into
// a DTO. Set revealAnswers when the caller may see the answer key.
func NewQuizSubmissionResponse(model models.QuizSubmission, answers []models.Answer, revealAnswers bool) QuizSubmissionResponse {
	views := make([]AnswerView, 0, len(answers))
	total := 0
	for _, answer := range answers {
		total += answer.Points
		view := AnswerView{
			Question:        answer.Question,
			Type:            answer.Type,
			SubmittedAnswer: answer.SubmittedAnswer,
			IsCorrect:       answer.IsCorrect,
			Points:          answer.Points,
			AwardedPoints:   answer.AwardedPoints,
		}
		if revealAnswers {
			view.CorrectAnswer = answer.CorrectAnswer
		}
		views = append(views, view)
	}

	response := QuizSubmissionResponse{
		ID:          model.ID,
		QuizID:      model.QuizID,
		StudentID:   model.StudentID,
		Score:       model.Score,
		TotalPoints: total,
		IsGraded:    model.IsGraded,
		Answers:     views,
		SubmittedAt: model.CreatedAt,
	}

	if model.Student.ID != 0 {
		response.Student = UserLite{ID: model.Student.ID, Username: model.Student.Username}
	} else {
		response.Student = UserLite{ID: model.StudentID}
	}

	return response
}
