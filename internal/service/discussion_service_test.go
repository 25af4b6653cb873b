package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
)

func newDiscussionService(t *testing.T) (*stubDiscussionRepo, DiscussionService) {
	t.Helper()

	ctx := context.Background()

	courses := newStubCourseRepo()
	course := models.Course{Title: "Biology 101", CreatedByUserID: 2}
	require.NoError(t, courses.Create(ctx, &course))
	require.NoError(t, courses.Enroll(ctx, &models.Enrollment{UserID: 4, CourseID: course.ID}))
	require.NoError(t, courses.Enroll(ctx, &models.Enrollment{UserID: 5, CourseID: course.ID}))

	discussions := newStubDiscussionRepo()
	svc := NewDiscussionService(discussions, courses, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	return discussions, svc
}

func TestCreatePostSanitizesMarkup(t *testing.T) {
	_, svc := newDiscussionService(t)
	student := authz.Actor{ID: 4, Role: models.RoleStudent}

	created, err := svc.CreatePost(context.Background(), student, 1, dto.DiscussionPostCreateRequest{
		Title:   "Homework <script>alert(1)</script>",
		Content: "Line one<br>line two <img src=x onerror=steal()>",
	})
	require.NoError(t, err)

	require.NotContains(t, created.Title, "<script>")
	require.NotContains(t, created.Content, "onerror")
	// line breaks survive sanitization
	require.Contains(t, created.Content, "<br>")
}

func TestCreatePostRequiresCourseAccess(t *testing.T) {
	_, svc := newDiscussionService(t)

	_, err := svc.CreatePost(context.Background(), authz.Actor{ID: 9, Role: models.RoleStudent}, 1, dto.DiscussionPostCreateRequest{
		Title:   "Hi",
		Content: "anyone here?",
	})
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	_, svc := newDiscussionService(t)
	author := authz.Actor{ID: 4, Role: models.RoleStudent}
	other := authz.Actor{ID: 5, Role: models.RoleStudent}

	created, err := svc.CreatePost(context.Background(), author, 1, dto.DiscussionPostCreateRequest{
		Title:   "Homework",
		Content: "question about chapter 3",
	})
	require.NoError(t, err)

	title := "Homework (edited)"
	_, err = svc.UpdatePost(context.Background(), other, created.ID, dto.DiscussionPostUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdatePost(context.Background(), author, created.ID, dto.DiscussionPostUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Homework (edited)", updated.Title)
}

func TestDeletePostAllowsCourseOwner(t *testing.T) {
	_, svc := newDiscussionService(t)
	author := authz.Actor{ID: 4, Role: models.RoleStudent}
	other := authz.Actor{ID: 5, Role: models.RoleStudent}
	owner := authz.Actor{ID: 2, Role: models.RoleTeacher}

	created, err := svc.CreatePost(context.Background(), author, 1, dto.DiscussionPostCreateRequest{
		Title:   "Off topic",
		Content: "memes",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeletePost(context.Background(), other, created.ID), ErrForbidden)
	require.NoError(t, svc.DeletePost(context.Background(), owner, created.ID))
}

func TestCreateReplyValidatesParent(t *testing.T) {
	_, svc := newDiscussionService(t)
	author := authz.Actor{ID: 4, Role: models.RoleStudent}
	other := authz.Actor{ID: 5, Role: models.RoleStudent}

	post, err := svc.CreatePost(context.Background(), author, 1, dto.DiscussionPostCreateRequest{
		Title:   "Homework",
		Content: "question",
	})
	require.NoError(t, err)

	reply, err := svc.CreateReply(context.Background(), other, post.ID, dto.ReplyCreateRequest{Content: "answer"})
	require.NoError(t, err)

	nested, err := svc.CreateReply(context.Background(), author, post.ID, dto.ReplyCreateRequest{
		Content:       "thanks",
		ParentReplyID: &reply.ID,
	})
	require.NoError(t, err)
	require.Equal(t, reply.ID, *nested.ParentReplyID)

	missing := uint(999)
	_, err = svc.CreateReply(context.Background(), author, post.ID, dto.ReplyCreateRequest{
		Content:       "dangling",
		ParentReplyID: &missing,
	})
	require.ErrorIs(t, err, ErrReplyNotFound)
}

func TestDeleteReplyReparentsChildren(t *testing.T) {
	discussions, svc := newDiscussionService(t)
	author := authz.Actor{ID: 4, Role: models.RoleStudent}

	post, err := svc.CreatePost(context.Background(), author, 1, dto.DiscussionPostCreateRequest{
		Title:   "Homework",
		Content: "question",
	})
	require.NoError(t, err)

	parent, err := svc.CreateReply(context.Background(), author, post.ID, dto.ReplyCreateRequest{Content: "first"})
	require.NoError(t, err)
	child, err := svc.CreateReply(context.Background(), author, post.ID, dto.ReplyCreateRequest{Content: "second", ParentReplyID: &parent.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReply(context.Background(), author, parent.ID))

	orphan, err := discussions.GetReply(context.Background(), child.ID)
	require.NoError(t, err)
	require.Nil(t, orphan.ParentReplyID)
}
