package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/repository"
)

// ErrAnnouncementNotFound indicates an announcement could not be found.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// AnnouncementService manages course-scoped and site-wide announcements.
type AnnouncementService interface {
	ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.AnnouncementResponse, error)
	Create(ctx context.Context, actor authz.Actor, courseID uint, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, payload dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uint) error

	ListGeneral(ctx context.Context) ([]dto.AnnouncementResponse, error)
	CreateGeneral(ctx context.Context, actor authz.Actor, payload dto.GeneralAnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	DeleteGeneral(ctx context.Context, actor authz.Actor, id uint) error
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	courses       repository.CourseRepository
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewAnnouncementService constructs an AnnouncementService instance.
func NewAnnouncementService(announcementRepo repository.AnnouncementRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) AnnouncementService {
	return &announcementService{
		announcements: announcementRepo,
		courses:       courseRepo,
		validator:     validate,
		logger:        logger.With().Str("component", "announcement_service").Logger(),
	}
}

func (s *announcementService) ListByCourse(ctx context.Context, actor authz.Actor, courseID uint) ([]dto.AnnouncementResponse, error) {
	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ActionViewCourse, res) {
		return nil, ErrForbidden
	}

	announcements, err := s.announcements.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAnnouncementResponseSlice(announcements), nil
}

func (s *announcementService) Create(ctx context.Context, actor authz.Actor, courseID uint, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, courseID)
	if err != nil {
		return dto.AnnouncementResponse{}, err
	}
	if !authz.Can(actor, authz.ActionPostAnnouncement, res) {
		return dto.AnnouncementResponse{}, ErrForbidden
	}

	announcement := models.Announcement{
		CourseID: courseID,
		AuthorID: actor.ID,
		Title:    payload.Title,
		Content:  payload.Content,
	}
	if err := s.announcements.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.logger.Info().Uint("announcement_id", announcement.ID).Uint("course_id", courseID).Msg("announcement created")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Update(ctx context.Context, actor authz.Actor, id uint, payload dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	res, err := courseResource(ctx, s.courses, actor, announcement.CourseID)
	if err != nil {
		return dto.AnnouncementResponse{}, err
	}
	if !authz.Can(actor, authz.ActionPostAnnouncement, res) {
		return dto.AnnouncementResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		announcement.Title = *payload.Title
	}
	if payload.Content != nil {
		announcement.Content = *payload.Content
	}

	if err := s.announcements.Update(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.logger.Info().Uint("announcement_id", announcement.ID).Msg("announcement updated")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	res, err := courseResource(ctx, s.courses, actor, announcement.CourseID)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.ActionPostAnnouncement, res) {
		return ErrForbidden
	}

	if err := s.announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	s.logger.Info().Uint("announcement_id", id).Msg("announcement deleted")

	return nil
}

// ListGeneral returns site-wide announcements; they are visible to every
// authenticated user.
func (s *announcementService) ListGeneral(ctx context.Context) ([]dto.AnnouncementResponse, error) {
	announcements, err := s.announcements.ListGeneral(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewGeneralAnnouncementResponseSlice(announcements), nil
}

func (s *announcementService) CreateGeneral(ctx context.Context, actor authz.Actor, payload dto.GeneralAnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	if !authz.Can(actor, authz.ActionPostSiteWide, authz.Resource{}) {
		return dto.AnnouncementResponse{}, ErrForbidden
	}

	announcement := models.GeneralAnnouncement{
		AuthorID: actor.ID,
		Title:    payload.Title,
		Content:  payload.Content,
	}
	if err := s.announcements.CreateGeneral(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.logger.Info().Uint("announcement_id", announcement.ID).Msg("site-wide announcement created")

	return dto.NewGeneralAnnouncementResponse(announcement), nil
}

func (s *announcementService) DeleteGeneral(ctx context.Context, actor authz.Actor, id uint) error {
	if !authz.Can(actor, authz.ActionPostSiteWide, authz.Resource{}) {
		return ErrForbidden
	}

	if err := s.announcements.DeleteGeneral(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	s.logger.Info().Uint("announcement_id", id).Msg("site-wide announcement deleted")

	return nil
}
