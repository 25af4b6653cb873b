package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
)

type progressFixture struct {
	users       *stubUserRepo
	courses     *stubCourseRepo
	lessons     *stubLessonRepo
	renderer    *stubPDFRenderer
	svc         ProgressService
	studentID   uint
	mathID      uint
	gradedSubID uint
}

func newProgressFixture(t *testing.T, cache *redis.Client) *progressFixture {
	t.Helper()

	ctx := context.Background()

	users := newStubUserRepo()
	student := models.User{Username: "dana", Email: "dana@example.com", Role: models.RoleStudent}
	require.NoError(t, users.Create(ctx, &student))

	courses := newStubCourseRepo()
	math := models.Course{Title: "Math", CreatedByUserID: 2}
	empty := models.Course{Title: "Empty Course", CreatedByUserID: 2}
	require.NoError(t, courses.Create(ctx, &math))
	require.NoError(t, courses.Create(ctx, &empty))
	require.NoError(t, courses.Enroll(ctx, &models.Enrollment{UserID: student.ID, CourseID: math.ID}))
	require.NoError(t, courses.Enroll(ctx, &models.Enrollment{UserID: student.ID, CourseID: empty.ID}))

	assignments := newStubAssignmentRepo()
	algebra := models.Assignment{CourseID: math.ID, Title: "Algebra HW", DueDate: time.Now().Add(24 * time.Hour), MaxSubmissions: 1}
	geometry := models.Assignment{CourseID: math.ID, Title: "Geometry HW", DueDate: time.Now().Add(48 * time.Hour), MaxSubmissions: 1}
	require.NoError(t, assignments.Create(ctx, &algebra))
	require.NoError(t, assignments.Create(ctx, &geometry))

	assignmentSubs := newStubAssignmentSubmissionRepo()
	grade := 88.5
	gradedSub := models.AssignmentSubmission{AssignmentID: algebra.ID, StudentID: student.ID, FilePath: "uploads/hw.pdf", Grade: &grade}
	require.NoError(t, assignmentSubs.Create(ctx, &gradedSub))

	quizzes := newStubQuizRepo()
	quiz := models.Quiz{CourseID: math.ID, Title: "Fractions"}
	require.NoError(t, quiz.SetQuestions([]models.Question{
		{Question: "1/2 + 1/2?", Type: models.QuestionTypeMultipleChoice, Options: []string{"1", "2"}, Answer: "1", Points: 5},
	}))
	require.NoError(t, quizzes.Create(ctx, &quiz))

	quizSubs := newStubQuizSubmissionRepo(quizzes)
	quizSub := models.QuizSubmission{QuizID: quiz.ID, StudentID: student.ID, Score: 5, IsGraded: true}
	require.NoError(t, quizSub.SetAnswers([]models.Answer{{Question: "1/2 + 1/2?", Type: models.QuestionTypeMultipleChoice, CorrectAnswer: "1", IsCorrect: true, Points: 5}}))
	require.NoError(t, quizSubs.Create(ctx, &quizSub))

	lessons := newStubLessonRepo()
	require.NoError(t, lessons.Create(ctx, &models.Lesson{CourseID: math.ID, Title: "L1", Content: "..."}))
	require.NoError(t, lessons.Create(ctx, &models.Lesson{CourseID: math.ID, Title: "L2", Content: "..."}))

	discussions := newStubDiscussionRepo()
	post := models.DiscussionPost{CourseID: math.ID, AuthorID: student.ID, Title: "Help", Content: "?"}
	require.NoError(t, discussions.CreatePost(ctx, &post))
	require.NoError(t, discussions.CreateReply(ctx, &models.Reply{PostID: post.ID, AuthorID: student.ID, Content: "a"}))
	require.NoError(t, discussions.CreateReply(ctx, &models.Reply{PostID: post.ID, AuthorID: student.ID, Content: "b"}))

	renderer := &stubPDFRenderer{}
	svc := NewProgressService(users, courses, assignments, assignmentSubs, quizzes, quizSubs, lessons, discussions, renderer, cache, time.Minute, zerolog.Nop())

	return &progressFixture{
		users:       users,
		courses:     courses,
		lessons:     lessons,
		renderer:    renderer,
		svc:         svc,
		studentID:   student.ID,
		mathID:      math.ID,
		gradedSubID: gradedSub.ID,
	}
}

func TestReportAggregatesPerCourse(t *testing.T) {
	f := newProgressFixture(t, nil)
	actor := authz.Actor{ID: f.studentID, Role: models.RoleStudent}

	report, err := f.svc.Report(context.Background(), actor)
	require.NoError(t, err)

	require.Equal(t, "dana", report.Username)
	require.Len(t, report.Courses, 2)

	math := report.Courses[0]
	require.Equal(t, "Math", math.CourseTitle)
	require.Len(t, math.Assignments, 2)
	require.Equal(t, dto.ProgressStatusGraded, math.Assignments[0].Status)
	require.NotNil(t, math.Assignments[0].Grade)
	require.Equal(t, 88.5, *math.Assignments[0].Grade)
	require.Equal(t, dto.ProgressStatusNotSubmitted, math.Assignments[1].Status)
	require.Nil(t, math.Assignments[1].Grade)

	require.Len(t, math.Quizzes, 1)
	require.Equal(t, dto.ProgressStatusGraded, math.Quizzes[0].Status)
	require.NotNil(t, math.Quizzes[0].Score)
	require.Equal(t, 5, *math.Quizzes[0].Score)
	require.Equal(t, 5, math.Quizzes[0].TotalPoints)

	require.Equal(t, 2, math.LessonsTotal)
	require.Equal(t, 1, math.DiscussionPosts)
	require.Equal(t, 2, math.DiscussionReplies)

	emptyCourse := report.Courses[1]
	require.Empty(t, emptyCourse.Assignments)
	require.Empty(t, emptyCourse.Quizzes)
}

func TestReportRequiresStudentRole(t *testing.T) {
	f := newProgressFixture(t, nil)

	_, err := f.svc.Report(context.Background(), authz.Actor{ID: 2, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestReportServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := newProgressFixture(t, cache)
	actor := authz.Actor{ID: f.studentID, Role: models.RoleStudent}

	first, err := f.svc.Report(context.Background(), actor)
	require.NoError(t, err)
	require.Equal(t, 2, first.Courses[0].LessonsTotal)

	// new data is invisible until the cached entry expires
	require.NoError(t, f.lessons.Create(context.Background(), &models.Lesson{CourseID: f.mathID, Title: "L3", Content: "..."}))

	second, err := f.svc.Report(context.Background(), actor)
	require.NoError(t, err)
	require.Equal(t, 2, second.Courses[0].LessonsTotal)

	mr.FastForward(2 * time.Minute)

	third, err := f.svc.Report(context.Background(), actor)
	require.NoError(t, err)
	require.Equal(t, 3, third.Courses[0].LessonsTotal)
}

func TestExportCSVLayout(t *testing.T) {
	f := newProgressFixture(t, nil)
	actor := authz.Actor{ID: f.studentID, Role: models.RoleStudent}

	out, err := f.svc.ExportCSV(context.Background(), actor)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Equal(t, "Course,Assignment,Status,Grade,Quiz,Quiz Score,Lessons Total,Discussion Posts,Discussion Replies", lines[0])

	// course-level columns only on the first row of the course
	require.Equal(t, "Math,Algebra HW,Graded,88.5,,N/A,2,1,2", lines[1])
	require.Equal(t, ",Geometry HW,Not Submitted,N/A,,N/A,,,", lines[2])
	require.Equal(t, ",,N/A,N/A,Fractions,5,,,", lines[3])

	// a course with neither assignments nor quizzes emits no rows
	require.Len(t, lines, 4)
}

func TestExportPDFUsesRenderer(t *testing.T) {
	f := newProgressFixture(t, nil)
	actor := authz.Actor{ID: f.studentID, Role: models.RoleStudent}

	out, err := f.svc.ExportPDF(context.Background(), actor)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Len(t, f.renderer.rendered, 1)
	require.Equal(t, "dana", f.renderer.rendered[0].Username)
}
