package pdfreport

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/openacademy/academy-api/internal/dto"
)

// Renderer turns a progress report into a PDF document.
type Renderer struct{}

// New constructs a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render lays out the report one course per section.
func (r *Renderer) Render(report dto.ProgressReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Student Progress Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Student Progress Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Student: %s", report.Username), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, course := range report.Courses {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, course.CourseTitle, "B", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		summary := fmt.Sprintf("Lessons: %d   Discussion posts: %d   Replies: %d",
			course.LessonsTotal, course.DiscussionPosts, course.DiscussionReplies)
		pdf.CellFormat(0, 6, summary, "", 1, "L", false, 0, "")
		pdf.Ln(1)

		if len(course.Assignments) > 0 {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 6, "Assignments", "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			for _, assignment := range course.Assignments {
				grade := "N/A"
				if assignment.Grade != nil {
					grade = strconv.FormatFloat(*assignment.Grade, 'f', -1, 64)
				}
				line := fmt.Sprintf("%s  -  %s  -  Grade: %s", assignment.Title, assignment.Status, grade)
				pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
			}
			pdf.Ln(1)
		}

		if len(course.Quizzes) > 0 {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 6, "Quizzes", "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			for _, quiz := range course.Quizzes {
				score := "N/A"
				if quiz.Score != nil {
					score = fmt.Sprintf("%d / %d", *quiz.Score, quiz.TotalPoints)
				}
				line := fmt.Sprintf("%s  -  %s  -  Score: %s", quiz.Title, quiz.Status, score)
				pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
			}
			pdf.Ln(1)
		}

		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}
