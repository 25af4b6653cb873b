// Package authz centralises the role and ownership rules that the request
// handlers previously re-derived individually.
package authz

import "github.com/openacademy/academy-api/internal/models"

// Actor is the authenticated identity performing an action.
type Actor struct {
	ID   uint
	Role string
}

// Action enumerates the guarded operations.
type Action string

const (
	ActionManageCourse      Action = "course:manage"
	ActionViewCourse        Action = "course:view"
	ActionManageUsers       Action = "users:manage"
	ActionGradeSubmission   Action = "submission:grade"
	ActionViewSubmission    Action = "submission:view"
	ActionSubmitQuiz        Action = "quiz:submit"
	ActionManageOwnContent  Action = "content:manage"
	ActionPostAnnouncement  Action = "announcement:post"
	ActionPostSiteWide      Action = "announcement:site"
	ActionViewSystemEvents  Action = "system:events"
	ActionViewOwnProgress   Action = "progress:view"
	ActionParticipateCourse Action = "course:participate"
)

// Resource carries the ownership facts a decision needs. Zero values mean
// "not applicable" for the action in question.
type Resource struct {
	// CourseOwnerID is the teacher that created the owning course.
	CourseOwnerID uint
	// AuthorID owns author-scoped content such as replies and announcements.
	AuthorID uint
	// StudentID owns a submission or progress report.
	StudentID uint
	// Enrolled is true when the actor is enrolled in the owning course.
	Enrolled bool
}

// Can reports whether the actor may perform the action on the resource.
// Admins pass every check except student-only ones.
func Can(actor Actor, action Action, res Resource) bool {
	switch action {
	case ActionManageUsers, ActionPostSiteWide, ActionViewSystemEvents:
		return actor.Role == models.RoleAdmin

	case ActionManageCourse, ActionGradeSubmission, ActionPostAnnouncement:
		if actor.Role == models.RoleAdmin {
			return true
		}
		return actor.Role == models.RoleTeacher && actor.ID == res.CourseOwnerID

	case ActionViewSubmission:
		if actor.Role == models.RoleAdmin {
			return true
		}
		if actor.Role == models.RoleTeacher {
			return actor.ID == res.CourseOwnerID
		}
		return actor.ID == res.StudentID

	case ActionSubmitQuiz, ActionViewOwnProgress:
		return actor.Role == models.RoleStudent

	case ActionViewCourse, ActionParticipateCourse:
		if actor.Role == models.RoleAdmin {
			return true
		}
		if actor.Role == models.RoleTeacher && actor.ID == res.CourseOwnerID {
			return true
		}
		return res.Enrolled

	case ActionManageOwnContent:
		if actor.Role == models.RoleAdmin {
			return true
		}
		return actor.ID == res.AuthorID

	default:
		return false
	}
}
