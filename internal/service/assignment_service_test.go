package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
)

type assignmentFixture struct {
	assignments *stubAssignmentRepo
	submissions *stubAssignmentSubmissionRepo
	svc         AssignmentService
	courseID    uint
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	ctx := context.Background()

	courses := newStubCourseRepo()
	course := models.Course{Title: "Physics", CreatedByUserID: 2}
	require.NoError(t, courses.Create(ctx, &course))
	require.NoError(t, courses.Enroll(ctx, &models.Enrollment{UserID: 4, CourseID: course.ID}))

	assignments := newStubAssignmentRepo()
	submissions := newStubAssignmentSubmissionRepo()
	svc := NewAssignmentService(assignments, submissions, courses, validator.New(validator.WithRequiredStructEnabled()), &stubFileStore{}, zerolog.Nop())

	return &assignmentFixture{assignments: assignments, submissions: submissions, svc: svc, courseID: course.ID}
}

func (f *assignmentFixture) addAssignment(t *testing.T, due time.Time, maxSubmissions int) uint {
	t.Helper()

	assignment := models.Assignment{
		CourseID:       f.courseID,
		Title:          "Lab Report",
		Description:    "Write it up",
		DueDate:        due,
		MaxSubmissions: maxSubmissions,
	}
	require.NoError(t, f.assignments.Create(context.Background(), &assignment))
	return assignment.ID
}

func TestSubmitWorkRejectsPastDue(t *testing.T) {
	f := newAssignmentFixture(t)
	id := f.addAssignment(t, time.Now().Add(-time.Hour), 3)

	_, err := f.svc.SubmitWork(context.Background(), authz.Actor{ID: 4, Role: models.RoleStudent}, id, nil)
	require.ErrorIs(t, err, ErrAssignmentPastDue)
}

func TestSubmitWorkEnforcesAttemptCap(t *testing.T) {
	f := newAssignmentFixture(t)
	id := f.addAssignment(t, time.Now().Add(time.Hour), 1)

	sub := models.AssignmentSubmission{AssignmentID: id, StudentID: 4, FilePath: "uploads/a.pdf"}
	require.NoError(t, f.submissions.Create(context.Background(), &sub))

	_, err := f.svc.SubmitWork(context.Background(), authz.Actor{ID: 4, Role: models.RoleStudent}, id, nil)
	require.ErrorIs(t, err, ErrSubmissionLimitReached)
}

func TestSubmitWorkRequiresEnrollment(t *testing.T) {
	f := newAssignmentFixture(t)
	id := f.addAssignment(t, time.Now().Add(time.Hour), 1)

	_, err := f.svc.SubmitWork(context.Background(), authz.Actor{ID: 9, Role: models.RoleStudent}, id, nil)
	require.ErrorIs(t, err, ErrNotEnrolled)

	_, err = f.svc.SubmitWork(context.Background(), authz.Actor{ID: 2, Role: models.RoleTeacher}, id, nil)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestGradeWorkRecordsGradeAndFeedback(t *testing.T) {
	f := newAssignmentFixture(t)
	id := f.addAssignment(t, time.Now().Add(time.Hour), 1)

	sub := models.AssignmentSubmission{AssignmentID: id, StudentID: 4, FilePath: "uploads/a.pdf"}
	require.NoError(t, f.submissions.Create(context.Background(), &sub))

	graded, err := f.svc.GradeWork(context.Background(), authz.Actor{ID: 2, Role: models.RoleTeacher}, sub.ID, dto.AssignmentGradeRequest{
		Grade:    91.5,
		Feedback: "solid work",
	})
	require.NoError(t, err)
	require.True(t, graded.IsGraded)
	require.Equal(t, 91.5, *graded.Grade)
	require.Equal(t, "solid work", graded.Feedback)

	_, err = f.svc.GradeWork(context.Background(), authz.Actor{ID: 7, Role: models.RoleTeacher}, sub.ID, dto.AssignmentGradeRequest{Grade: 50})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestGradeWorkRejectsOutOfRange(t *testing.T) {
	f := newAssignmentFixture(t)
	id := f.addAssignment(t, time.Now().Add(time.Hour), 1)

	sub := models.AssignmentSubmission{AssignmentID: id, StudentID: 4, FilePath: "uploads/a.pdf"}
	require.NoError(t, f.submissions.Create(context.Background(), &sub))

	_, err := f.svc.GradeWork(context.Background(), authz.Actor{ID: 2, Role: models.RoleTeacher}, sub.ID, dto.AssignmentGradeRequest{Grade: 150})
	require.Error(t, err)
}
