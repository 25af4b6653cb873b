package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openacademy/academy-api/internal/models"
)

func TestAuthorizationMatrix(t *testing.T) {
	admin := Actor{ID: 1, Role: models.RoleAdmin}
	owner := Actor{ID: 2, Role: models.RoleTeacher}
	otherTeacher := Actor{ID: 3, Role: models.RoleTeacher}
	student := Actor{ID: 4, Role: models.RoleStudent}
	otherStudent := Actor{ID: 5, Role: models.RoleStudent}

	course := Resource{CourseOwnerID: owner.ID}
	enrolled := Resource{CourseOwnerID: owner.ID, Enrolled: true}
	submission := Resource{CourseOwnerID: owner.ID, StudentID: student.ID}
	ownContent := Resource{AuthorID: student.ID}

	cases := []struct {
		name   string
		actor  Actor
		action Action
		res    Resource
		want   bool
	}{
		{"admin manages any course", admin, ActionManageCourse, course, true},
		{"owner manages own course", owner, ActionManageCourse, course, true},
		{"other teacher cannot manage", otherTeacher, ActionManageCourse, course, false},
		{"student cannot manage", student, ActionManageCourse, course, false},

		{"admin grades", admin, ActionGradeSubmission, submission, true},
		{"owner grades", owner, ActionGradeSubmission, submission, true},
		{"other teacher cannot grade", otherTeacher, ActionGradeSubmission, submission, false},
		{"student cannot grade own submission", student, ActionGradeSubmission, submission, false},

		{"student views own submission", student, ActionViewSubmission, submission, true},
		{"other student cannot view", otherStudent, ActionViewSubmission, submission, false},
		{"owner views submission", owner, ActionViewSubmission, submission, true},
		{"other teacher cannot view submission", otherTeacher, ActionViewSubmission, submission, false},

		{"enrolled student submits quiz", student, ActionSubmitQuiz, enrolled, true},
		{"teacher cannot submit quiz", owner, ActionSubmitQuiz, enrolled, false},
		{"admin cannot submit quiz", admin, ActionSubmitQuiz, enrolled, false},

		{"enrolled student participates", student, ActionParticipateCourse, enrolled, true},
		{"unenrolled student cannot participate", student, ActionParticipateCourse, course, false},
		{"owner participates", owner, ActionParticipateCourse, course, true},

		{"only admin manages users", owner, ActionManageUsers, Resource{}, false},
		{"admin manages users", admin, ActionManageUsers, Resource{}, true},
		{"only admin posts site-wide", owner, ActionPostSiteWide, Resource{}, false},
		{"admin posts site-wide", admin, ActionPostSiteWide, Resource{}, true},

		{"author manages own content", student, ActionManageOwnContent, ownContent, true},
		{"non-author cannot manage content", otherStudent, ActionManageOwnContent, ownContent, false},
		{"admin manages any content", admin, ActionManageOwnContent, ownContent, true},

		{"student views own progress", student, ActionViewOwnProgress, Resource{}, true},
		{"teacher has no progress report", owner, ActionViewOwnProgress, Resource{}, false},

		{"unknown action denied", admin, Action("nope"), Resource{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Can(tc.actor, tc.action, tc.res))
		})
	}
}
