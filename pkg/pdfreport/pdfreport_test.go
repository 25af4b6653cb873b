package pdfreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openacademy/academy-api/internal/dto"
)

func TestRenderProducesPDF(t *testing.T) {
	grade := 92.5
	score := 8

	report := dto.ProgressReport{
		StudentID:   4,
		Username:    "dana",
		GeneratedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Courses: []dto.CourseProgress{
			{
				CourseID:    1,
				CourseTitle: "Math",
				Assignments: []dto.ProgressAssignment{
					{Title: "Algebra HW", Status: dto.ProgressStatusGraded, Grade: &grade},
				},
				Quizzes: []dto.ProgressQuiz{
					{Title: "Fractions", Status: dto.ProgressStatusGraded, Score: &score, TotalPoints: 10},
				},
				LessonsTotal: 2,
			},
		},
	}

	out, err := New().Render(report)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderEmptyReport(t *testing.T) {
	out, err := New().Render(dto.ProgressReport{Username: "dana", GeneratedAt: time.Now()})
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
