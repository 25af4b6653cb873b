package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openacademy/academy-api/internal/models"
)

func sampleQuestions() []models.Question {
	return []models.Question{
		{
			Question: "Which planet is known as the red planet?",
			Type:     models.QuestionTypeMultipleChoice,
			Options:  []string{"A", "B", "C"},
			Answer:   "B",
			Points:   5,
		},
		{
			Question: "Explain the water cycle.",
			Type:     models.QuestionTypeOpenEnded,
			Answer:   "",
			Points:   10,
		},
	}
}

func TestValidateQuestions(t *testing.T) {
	require.NoError(t, ValidateQuestions(sampleQuestions()))

	require.ErrorIs(t, ValidateQuestions(nil), ErrNoQuestions)

	zeroPoints := sampleQuestions()
	zeroPoints[0].Points = 0
	require.ErrorIs(t, ValidateQuestions(zeroPoints), ErrInvalidQuestion)

	noOptions := sampleQuestions()
	noOptions[0].Options = nil
	require.ErrorIs(t, ValidateQuestions(noOptions), ErrInvalidQuestion)

	badType := sampleQuestions()
	badType[1].Type = "essay"
	require.ErrorIs(t, ValidateQuestions(badType), ErrInvalidQuestion)
}

func TestScoreMixedQuiz(t *testing.T) {
	result, err := Score(sampleQuestions(), map[int]string{0: "B", 1: "some text"})
	require.NoError(t, err)

	require.Equal(t, 5, result.Score)
	require.False(t, result.Graded)
	require.Len(t, result.Answers, 2)

	mcq := result.Answers[0]
	require.True(t, mcq.IsCorrect)
	require.NotNil(t, mcq.AwardedPoints)
	require.Equal(t, 5, *mcq.AwardedPoints)
	require.NotNil(t, mcq.SubmittedAnswer)
	require.Equal(t, "B", *mcq.SubmittedAnswer)

	open := result.Answers[1]
	require.Nil(t, open.AwardedPoints)
	require.False(t, open.IsCorrect)
	require.NotNil(t, open.SubmittedAnswer)
}

func TestScoreMultipleChoiceOnlyIsFullyGraded(t *testing.T) {
	questions := []models.Question{
		{Question: "Q1", Type: models.QuestionTypeMultipleChoice, Options: []string{"A", "B"}, Answer: "A", Points: 3},
		{Question: "Q2", Type: models.QuestionTypeMultipleChoice, Options: []string{"A", "B"}, Answer: "B", Points: 4},
	}

	result, err := Score(questions, map[int]string{0: "A", 1: "A"})
	require.NoError(t, err)
	require.True(t, result.Graded)
	require.Equal(t, 3, result.Score)
	require.Equal(t, 0, *result.Answers[1].AwardedPoints)
}

func TestScoreTreatsMissingAnswersAsIncorrect(t *testing.T) {
	result, err := Score(sampleQuestions(), nil)
	require.NoError(t, err)

	require.Equal(t, 0, result.Score)
	require.Nil(t, result.Answers[0].SubmittedAnswer)
	require.NotNil(t, result.Answers[0].AwardedPoints)
	require.Equal(t, 0, *result.Answers[0].AwardedPoints)
	require.Nil(t, result.Answers[1].SubmittedAnswer)
	require.Nil(t, result.Answers[1].AwardedPoints)
}

func TestScoreEmptyQuiz(t *testing.T) {
	_, err := Score(nil, nil)
	require.ErrorIs(t, err, ErrNoQuestions)
}

func TestReconcileMergesOpenEndedPoints(t *testing.T) {
	result, err := Score(sampleQuestions(), map[int]string{0: "B", 1: "some text"})
	require.NoError(t, err)

	merged, total, err := Reconcile(result.Answers, map[int]int{1: 8})
	require.NoError(t, err)
	require.Equal(t, 13, total)
	require.NotNil(t, merged[1].AwardedPoints)
	require.Equal(t, 8, *merged[1].AwardedPoints)

	// input snapshot must stay untouched
	require.Nil(t, result.Answers[1].AwardedPoints)
}

func TestReconcileRecomputesMCQFromAnswers(t *testing.T) {
	result, err := Score(sampleQuestions(), map[int]string{0: "B"})
	require.NoError(t, err)

	// missing awarded entry defaults to zero
	_, total, err := Reconcile(result.Answers, nil)
	require.NoError(t, err)
	require.Equal(t, 5, total)
}

func TestReconcileRejectsOverCap(t *testing.T) {
	result, err := Score(sampleQuestions(), map[int]string{0: "B", 1: "text"})
	require.NoError(t, err)

	_, _, err = Reconcile(result.Answers, map[int]int{1: 15})
	require.ErrorIs(t, err, ErrAwardExceedsCap)
}

func TestReconcileRejectsNegative(t *testing.T) {
	result, err := Score(sampleQuestions(), map[int]string{1: "text"})
	require.NoError(t, err)

	_, _, err = Reconcile(result.Answers, map[int]int{1: -1})
	require.ErrorIs(t, err, ErrNegativeAward)
}
