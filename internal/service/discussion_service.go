package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
)

// Discussion failure sentinels.
var (
	ErrPostNotFound  = errors.New("discussion post not found")
	ErrReplyNotFound = errors.New("reply not found")
	ErrContentEmpty  = errors.New("content is empty after sanitization")
)

// DiscussionService exposes course discussion use-cases.
type DiscussionService interface {
	ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.DiscussionPostResponse, error)
	GetPost(ctx context.Context, actor authz.Actor, postID uint) (dto.DiscussionPostResponse, error)
	CreatePost(ctx context.Context, actor authz.Actor, courseID uint, payload dto.DiscussionPostCreateRequest) (dto.DiscussionPostResponse, error)
	UpdatePost(ctx context.Context, actor authz.Actor, postID uint, payload dto.DiscussionPostUpdateRequest) (dto.DiscussionPostResponse, error)
	DeletePost(ctx context.Context, actor authz.Actor, postID uint) error

	CreateReply(ctx context.Context, actor authz.Actor, postID uint, payload dto.ReplyCreateRequest) (dto.ReplyResponse, error)
	UpdateReply(ctx context.Context, actor authz.Actor, replyID uint, payload dto.ReplyUpdateRequest) (dto.ReplyResponse, error)
	DeleteReply(ctx context.Context, actor authz.Actor, replyID uint) error
}

type discussionService struct {
	discussions repository.DiscussionRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	now         func() time.Time
}

// NewDiscussionService constructs a DiscussionService instance.
func NewDiscussionService(discussionRepo repository.DiscussionRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) DiscussionService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &discussionService{
		discussions: discussionRepo,
		courses:     courseRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "discussion_service").Logger(),
		tracer:      otel.Tracer("github.com/openacademy/academy-api/internal/service/discussion"),
		sanitizer:   policy,
		now:         time.Now,
	}
}

func (s *discussionService) ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.DiscussionPostResponse, error) {
	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return nil, ErrForbidden
	}

	posts, err := s.discussions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewDiscussionPostResponseSlice(posts), nil
}

func (s *discussionService) GetPost(ctx context.Context, actor authz.Actor, postID uint) (dto.DiscussionPostResponse, error) {
	post, err := s.discussions.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionPostResponse{}, ErrPostNotFound
		}
		return dto.DiscussionPostResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, post.CourseID)
	if err != nil {
		return dto.DiscussionPostResponse{}, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return dto.DiscussionPostResponse{}, ErrForbidden
	}

	return dto.NewDiscussionPostResponse(post), nil
}

func (s *discussionService) CreatePost(ctx context.Context, actor authz.Actor, courseID uint, payload dto.DiscussionPostCreateRequest) (dto.DiscussionPostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionPostResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return dto.DiscussionPostResponse{}, err
	}
	if !authz.Can(actor, authz.ActionParticipateCourse, res) {
		return dto.DiscussionPostResponse{}, ErrForbidden
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if title == "" || content == "" {
		return dto.DiscussionPostResponse{}, fmt.Errorf("%w: post body", ErrContentEmpty)
	}

	spanCtx, span := s.tracer.Start(ctx, "discussion.create_post", trace.WithAttributes(
		attribute.Int64("course.id", int64(courseID)),
		attribute.Int64("author.id", int64(actor.ID)),
	))
	defer span.End()

	post := models.DiscussionPost{
		CourseID: courseID,
		AuthorID: actor.ID,
		Title:    title,
		Content:  content,
	}
	if err := s.discussions.CreatePost(spanCtx, &post); err != nil {
		return dto.DiscussionPostResponse{}, err
	}

	created, err := s.discussions.GetPost(spanCtx, post.ID)
	if err != nil {
		return dto.DiscussionPostResponse{}, err
	}

	s.logger.Info().Uint("post_id", post.ID).Uint("course_id", courseID).Msg("discussion post created")

	return dto.NewDiscussionPostResponse(created), nil
}

func (s *discussionService) UpdatePost(ctx context.Context, actor authz.Actor, postID uint, payload dto.DiscussionPostUpdateRequest) (dto.DiscussionPostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionPostResponse{}, err
	}

	post, err := s.discussions.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionPostResponse{}, ErrPostNotFound
		}
		return dto.DiscussionPostResponse{}, err
	}

	if !authz.Can(actor, authz.ActionManageOwnContent, authz.Resource{AuthorID: post.AuthorID}) {
		return dto.DiscussionPostResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		title := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Title))
		if title == "" {
			return dto.DiscussionPostResponse{}, fmt.Errorf("%w: post title", ErrContentEmpty)
		}
		post.Title = title
	}
	if payload.Content != nil {
		content := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Content))
		if content == "" {
			return dto.DiscussionPostResponse{}, fmt.Errorf("%w: post body", ErrContentEmpty)
		}
		post.Content = content
	}

	if err := s.discussions.UpdatePost(ctx, &post); err != nil {
		return dto.DiscussionPostResponse{}, err
	}

	s.logger.Info().Uint("post_id", post.ID).Msg("discussion post updated")

	return dto.NewDiscussionPostResponse(post), nil
}

// DeletePost is allowed for the author, the course teacher, and admins.
func (s *discussionService) DeletePost(ctx context.Context, actor authz.Actor, postID uint) error {
	post, err := s.discussions.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	res, err := courseResource(ctx, s.courses, actor, post.CourseID)
	if err != nil {
		return err
	}
	res.AuthorID = post.AuthorID

	if !authz.Can(actor, authz.ActionManageOwnContent, res) && !authz.Can(actor, authz.ActionManageCourse, res) {
		return ErrForbidden
	}

	if err := s.discussions.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	s.logger.Info().Uint("post_id", postID).Msg("discussion post deleted")

	return nil
}

func (s *discussionService) CreateReply(ctx context.Context, actor authz.Actor, postID uint, payload dto.ReplyCreateRequest) (dto.ReplyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReplyResponse{}, err
	}

	post, err := s.discussions.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReplyResponse{}, ErrPostNotFound
		}
		return dto.ReplyResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, post.CourseID)
	if err != nil {
		return dto.ReplyResponse{}, err
	}
	if !authz.Can(actor, authz.ActionParticipateCourse, res) {
		return dto.ReplyResponse{}, ErrForbidden
	}

	if payload.ParentReplyID != nil {
		parent, err := s.discussions.GetReply(ctx, *payload.ParentReplyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ReplyResponse{}, ErrReplyNotFound
			}
			return dto.ReplyResponse{}, err
		}
		if parent.PostID != postID {
			return dto.ReplyResponse{}, ErrReplyNotFound
		}
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.ReplyResponse{}, fmt.Errorf("%w: reply body", ErrContentEmpty)
	}

	spanCtx, span := s.tracer.Start(ctx, "discussion.create_reply", trace.WithAttributes(
		attribute.Int64("post.id", int64(postID)),
		attribute.Int64("author.id", int64(actor.ID)),
	))
	defer span.End()

	reply := models.Reply{
		PostID:        postID,
		AuthorID:      actor.ID,
		ParentReplyID: payload.ParentReplyID,
		Content:       content,
	}
	if err := s.discussions.CreateReply(spanCtx, &reply); err != nil {
		return dto.ReplyResponse{}, err
	}

	s.logger.Info().Uint("reply_id", reply.ID).Uint("post_id", postID).Msg("reply created")

	return dto.NewReplyResponse(reply), nil
}

// UpdateReply lets the author edit their reply content.
func (s *discussionService) UpdateReply(ctx context.Context, actor authz.Actor, replyID uint, payload dto.ReplyUpdateRequest) (dto.ReplyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReplyResponse{}, err
	}

	reply, err := s.discussions.GetReply(ctx, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReplyResponse{}, ErrReplyNotFound
		}
		return dto.ReplyResponse{}, err
	}

	if !authz.Can(actor, authz.ActionManageOwnContent, authz.Resource{AuthorID: reply.AuthorID}) {
		return dto.ReplyResponse{}, ErrForbidden
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.ReplyResponse{}, fmt.Errorf("%w: reply body", ErrContentEmpty)
	}
	reply.Content = content

	if err := s.discussions.UpdateReply(ctx, &reply); err != nil {
		return dto.ReplyResponse{}, err
	}

	s.logger.Info().Uint("reply_id", reply.ID).Msg("reply updated")

	return dto.NewReplyResponse(reply), nil
}

// DeleteReply is allowed for the author, the course teacher, and admins.
// Children of the removed reply are re-parented, not deleted.
func (s *discussionService) DeleteReply(ctx context.Context, actor authz.Actor, replyID uint) error {
	reply, err := s.discussions.GetReply(ctx, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReplyNotFound
		}
		return err
	}

	post, err := s.discussions.GetPost(ctx, reply.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	res, err := courseResource(ctx, s.courses, actor, post.CourseID)
	if err != nil {
		return err
	}
	res.AuthorID = reply.AuthorID

	if !authz.Can(actor, authz.ActionManageOwnContent, res) && !authz.Can(actor, authz.ActionManageCourse, res) {
		return ErrForbidden
	}

	if err := s.discussions.DeleteReply(ctx, replyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReplyNotFound
		}
		return err
	}

	s.logger.Info().Uint("reply_id", replyID).Msg("reply deleted")

	return nil
}
