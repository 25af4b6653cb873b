// Package grading implements quiz scoring: automatic scoring of
// multiple-choice answers at submission time and reconciliation of manually
// graded open-ended answers. All functions are pure; persistence stays in the
// service layer.
package grading

import (
	"errors"
	"fmt"

	"github.com/openacademy/academy-api/internal/models"
)

var (
	// ErrNoQuestions indicates a quiz definition with an empty question list.
	ErrNoQuestions = errors.New("quiz must have at least one question")
	// ErrInvalidQuestion indicates a question that fails structural validation.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrAwardExceedsCap indicates an awarded value above the question's points.
	ErrAwardExceedsCap = errors.New("awarded points exceed question maximum")
	// ErrNegativeAward indicates a negative awarded value.
	ErrNegativeAward = errors.New("awarded points must not be negative")
	// ErrTotalExceedsMax indicates a reconciled total above the quiz maximum.
	ErrTotalExceedsMax = errors.New("total score exceeds quiz maximum")
)

// ValidateQuestions checks a question list before it is stored.
func ValidateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	for i, question := range questions {
		if question.Question == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidQuestion, i+1)
		}
		if question.Points < 1 {
			return fmt.Errorf("%w: question %d must be worth at least 1 point", ErrInvalidQuestion, i+1)
		}
		switch question.Type {
		case models.QuestionTypeMultipleChoice:
			if len(question.Options) == 0 {
				return fmt.Errorf("%w: question %d has no options", ErrInvalidQuestion, i+1)
			}
			if question.Answer == "" {
				return fmt.Errorf("%w: question %d has no correct option", ErrInvalidQuestion, i+1)
			}
		case models.QuestionTypeOpenEnded:
		default:
			return fmt.Errorf("%w: question %d has unknown type %q", ErrInvalidQuestion, i+1, question.Type)
		}
	}

	return nil
}

// ScoreResult carries the outcome of scoring a fresh submission.
type ScoreResult struct {
	Answers []models.Answer
	// Score is the multiple-choice score only; open-ended points are
	// excluded until a teacher grades them.
	Score int
	// Graded is true when no open-ended question exists, i.e. the automatic
	// pass fully graded the submission.
	Graded bool
}

// Score walks the question list in order and builds the answer snapshot for a
// submission. Multiple-choice answers are compared to the stored correct
// option by exact match; a missing response counts as incorrect. Open-ended
// answers are recorded with nil awarded points for later manual grading.
func Score(questions []models.Question, responses map[int]string) (ScoreResult, error) {
	if len(questions) == 0 {
		return ScoreResult{}, ErrNoQuestions
	}

	result := ScoreResult{
		Answers: make([]models.Answer, 0, len(questions)),
		Graded:  true,
	}

	for i, question := range questions {
		answer := models.Answer{
			Question:      question.Question,
			Type:          question.Type,
			CorrectAnswer: question.Answer,
			Points:        question.Points,
		}

		response, answered := responses[i]
		if answered {
			submitted := response
			answer.SubmittedAnswer = &submitted
		}

		switch question.Type {
		case models.QuestionTypeOpenEnded:
			result.Graded = false
		default:
			awarded := 0
			if answered && response == question.Answer {
				answer.IsCorrect = true
				awarded = question.Points
				result.Score += question.Points
			}
			answer.AwardedPoints = &awarded
		}

		result.Answers = append(result.Answers, answer)
	}

	return result, nil
}

// Reconcile merges teacher-awarded open-ended points into an answer snapshot
// and recomputes the total. The multiple-choice portion is always recomputed
// from the stored answers rather than trusted from a previously stored
// aggregate. Any violation aborts the whole operation; the returned answers
// are a fresh slice and the input is never mutated.
func Reconcile(answers []models.Answer, awarded map[int]int) ([]models.Answer, int, error) {
	total := 0
	for _, answer := range answers {
		if answer.Type == models.QuestionTypeMultipleChoice && answer.IsCorrect {
			total += answer.Points
		}
	}

	merged := make([]models.Answer, len(answers))
	copy(merged, answers)

	for i := range merged {
		if merged[i].Type != models.QuestionTypeOpenEnded {
			continue
		}

		points := awarded[i]
		if points < 0 {
			return nil, 0, fmt.Errorf("%w: question %d", ErrNegativeAward, i+1)
		}
		if points > merged[i].Points {
			return nil, 0, fmt.Errorf("%w: question %d allows at most %d", ErrAwardExceedsCap, i+1, merged[i].Points)
		}

		value := points
		merged[i].AwardedPoints = &value
		total += points
	}

	maximum := 0
	for _, answer := range answers {
		maximum += answer.Points
	}
	if total > maximum {
		return nil, 0, fmt.Errorf("%w: %d > %d", ErrTotalExceedsMax, total, maximum)
	}

	return merged, total, nil
}
