package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/grading"
	"github.com/openacademy/academy-api/internal/models"
)

func newQuizService(t *testing.T) (*stubCourseRepo, *stubQuizRepo, QuizService) {
	t.Helper()

	courses := newStubCourseRepo()
	course := models.Course{Title: "Biology 101", CreatedByUserID: 2}
	require.NoError(t, courses.Create(context.Background(), &course))
	require.NoError(t, courses.Enroll(context.Background(), &models.Enrollment{UserID: 4, CourseID: course.ID}))

	quizzes := newStubQuizRepo()
	svc := NewQuizService(quizzes, courses, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	return courses, quizzes, svc
}

func TestCreateQuizRejectsInvalidQuestions(t *testing.T) {
	_, _, svc := newQuizService(t)
	owner := authz.Actor{ID: 2, Role: models.RoleTeacher}

	// a multiple choice question whose answer is not among the options
	_, err := svc.Create(context.Background(), owner, 1, dto.QuizCreateRequest{
		Title: "Broken",
		Questions: []dto.QuestionPayload{
			{Question: "Pick one", Type: models.QuestionTypeMultipleChoice, Options: []string{"A", "B"}, Answer: "C", Points: 5},
		},
	})
	require.ErrorIs(t, err, grading.ErrInvalidQuestion)
}

func TestCreateQuizRequiresCourseOwnership(t *testing.T) {
	_, _, svc := newQuizService(t)

	payload := dto.QuizCreateRequest{
		Title: "Planets",
		Questions: []dto.QuestionPayload{
			{Question: "Red planet?", Type: models.QuestionTypeMultipleChoice, Options: []string{"Mars", "Venus"}, Answer: "Mars", Points: 5},
		},
	}

	_, err := svc.Create(context.Background(), authz.Actor{ID: 7, Role: models.RoleTeacher}, 1, payload)
	require.ErrorIs(t, err, ErrForbidden)

	created, err := svc.Create(context.Background(), authz.Actor{ID: 2, Role: models.RoleTeacher}, 1, payload)
	require.NoError(t, err)
	require.Equal(t, 5, created.TotalPoints)
}

func TestGetQuizHidesAnswerKeyFromStudents(t *testing.T) {
	_, _, svc := newQuizService(t)
	owner := authz.Actor{ID: 2, Role: models.RoleTeacher}

	created, err := svc.Create(context.Background(), owner, 1, dto.QuizCreateRequest{
		Title: "Planets",
		Questions: []dto.QuestionPayload{
			{Question: "Red planet?", Type: models.QuestionTypeMultipleChoice, Options: []string{"Mars", "Venus"}, Answer: "Mars", Points: 5},
		},
	})
	require.NoError(t, err)

	asStudent, err := svc.Get(context.Background(), authz.Actor{ID: 4, Role: models.RoleStudent}, created.ID)
	require.NoError(t, err)
	require.Empty(t, asStudent.Questions[0].Answer)

	asOwner, err := svc.Get(context.Background(), owner, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Mars", asOwner.Questions[0].Answer)
}

func TestDeleteQuizScopedToManagers(t *testing.T) {
	_, quizzes, svc := newQuizService(t)
	owner := authz.Actor{ID: 2, Role: models.RoleTeacher}

	created, err := svc.Create(context.Background(), owner, 1, dto.QuizCreateRequest{
		Title: "Planets",
		Questions: []dto.QuestionPayload{
			{Question: "Red planet?", Type: models.QuestionTypeMultipleChoice, Options: []string{"Mars", "Venus"}, Answer: "Mars", Points: 5},
		},
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), authz.Actor{ID: 4, Role: models.RoleStudent}, created.ID), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), owner, created.ID))

	_, err = quizzes.GetByID(context.Background(), created.ID)
	require.Error(t, err)
}
