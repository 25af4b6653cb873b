package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/repository"
)

// ErrUserNotFound indicates an account could not be found.
var ErrUserNotFound = errors.New("user not found")

// systemEventLimit bounds each source feeding the admin timeline.
const systemEventLimit = 20

// AdminService exposes account management and the system activity timeline.
type AdminService interface {
	ListUsers(ctx context.Context, actor authz.Actor) ([]dto.UserResponse, error)
	UpdateRole(ctx context.Context, actor authz.Actor, userID uint, payload dto.RoleUpdateRequest) (dto.UserResponse, error)
	SystemEvents(ctx context.Context, actor authz.Actor) ([]dto.SystemEvent, error)
}

type adminService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	submissions repository.QuizSubmissionRepository
	discussions repository.DiscussionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(userRepo repository.UserRepository, courseRepo repository.CourseRepository, subRepo repository.QuizSubmissionRepository, discussionRepo repository.DiscussionRepository, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		users:       userRepo,
		courses:     courseRepo,
		submissions: subRepo,
		discussions: discussionRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) ListUsers(ctx context.Context, actor authz.Actor) ([]dto.UserResponse, error) {
	if !authz.Can(actor, authz.ActionManageUsers, authz.Resource{}) {
		return nil, ErrForbidden
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

func (s *adminService) UpdateRole(ctx context.Context, actor authz.Actor, userID uint, payload dto.RoleUpdateRequest) (dto.UserResponse, error) {
	if !authz.Can(actor, authz.ActionManageUsers, authz.Resource{}) {
		return dto.UserResponse{}, ErrForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	// Admins cannot demote themselves; the system needs at least one admin.
	if user.ID == actor.ID {
		return dto.UserResponse{}, ErrForbidden
	}

	user.Role = payload.Role
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user role updated")

	return dto.NewUserResponse(user), nil
}

// SystemEvents merges recent enrollments, quiz submissions and discussion
// posts into one timeline, newest first.
func (s *adminService) SystemEvents(ctx context.Context, actor authz.Actor) ([]dto.SystemEvent, error) {
	if !authz.Can(actor, authz.ActionViewSystemEvents, authz.Resource{}) {
		return nil, ErrForbidden
	}

	var events []dto.SystemEvent

	enrollments, err := s.courses.ListRecentEnrollments(ctx, systemEventLimit)
	if err != nil {
		return nil, err
	}
	for _, enrollment := range enrollments {
		courseID := enrollment.CourseID
		events = append(events, dto.SystemEvent{
			Kind:       "enrollment",
			Actor:      dto.UserLite{ID: enrollment.User.ID, Username: enrollment.User.Username},
			CourseID:   &courseID,
			Detail:     fmt.Sprintf("enrolled in %q", enrollment.Course.Title),
			OccurredAt: enrollment.CreatedAt,
		})
	}

	submissions, err := s.submissions.ListRecent(ctx, systemEventLimit)
	if err != nil {
		return nil, err
	}
	for _, submission := range submissions {
		courseID := submission.Quiz.CourseID
		events = append(events, dto.SystemEvent{
			Kind:       "quiz_submission",
			Actor:      dto.UserLite{ID: submission.Student.ID, Username: submission.Student.Username},
			CourseID:   &courseID,
			Detail:     fmt.Sprintf("submitted quiz %q", submission.Quiz.Title),
			OccurredAt: submission.CreatedAt,
		})
	}

	posts, err := s.discussions.ListRecentPosts(ctx, systemEventLimit)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		courseID := post.CourseID
		events = append(events, dto.SystemEvent{
			Kind:       "discussion_post",
			Actor:      dto.UserLite{ID: post.Author.ID, Username: post.Author.Username},
			CourseID:   &courseID,
			Detail:     fmt.Sprintf("posted %q", post.Title),
			OccurredAt: post.CreatedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})

	return events, nil
}
