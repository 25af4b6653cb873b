package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/models"
)

// AnnouncementRepository defines persistence operations for course and
// site-wide announcements.
type AnnouncementRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Announcement, error)
	GetByID(ctx context.Context, id uint) (models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id uint) error

	ListGeneral(ctx context.Context) ([]models.GeneralAnnouncement, error)
	GetGeneral(ctx context.Context, id uint) (models.GeneralAnnouncement, error)
	CreateGeneral(ctx context.Context, announcement *models.GeneralAnnouncement) error
	DeleteGeneral(ctx context.Context, id uint) error
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository instantiates a GORM-backed repository.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Announcement, error) {
	var announcements []models.Announcement
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&announcements).Error; err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.WithContext(ctx).Preload("Author").First(&announcement, id).Error; err != nil {
		return models.Announcement{}, err
	}
	return announcement, nil
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Save(announcement).Error
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *announcementRepository) ListGeneral(ctx context.Context) ([]models.GeneralAnnouncement, error) {
	var announcements []models.GeneralAnnouncement
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Find(&announcements).Error; err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepository) GetGeneral(ctx context.Context, id uint) (models.GeneralAnnouncement, error) {
	var announcement models.GeneralAnnouncement
	if err := r.db.WithContext(ctx).Preload("Author").First(&announcement, id).Error; err != nil {
		return models.GeneralAnnouncement{}, err
	}
	return announcement, nil
}

func (r *announcementRepository) CreateGeneral(ctx context.Context, announcement *models.GeneralAnnouncement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) DeleteGeneral(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.GeneralAnnouncement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
