package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/models"
)

// AssignmentSubmissionRepository defines persistence operations for uploaded
// assignment attempts.
type AssignmentSubmissionRepository interface {
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.AssignmentSubmission, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.AssignmentSubmission, error)
	GetByID(ctx context.Context, id uint) (models.AssignmentSubmission, error)
	LatestByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.AssignmentSubmission, error)
	CountByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (int64, error)
	Create(ctx context.Context, submission *models.AssignmentSubmission) error
	Update(ctx context.Context, submission *models.AssignmentSubmission) error
}

type assignmentSubmissionRepository struct {
	db *gorm.DB
}

// NewAssignmentSubmissionRepository instantiates a GORM-backed repository.
func NewAssignmentSubmissionRepository(db *gorm.DB) AssignmentSubmissionRepository {
	return &assignmentSubmissionRepository{db: db}
}

func (r *assignmentSubmissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *assignmentSubmissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *assignmentSubmissionRepository) GetByID(ctx context.Context, id uint) (models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Student").
		First(&submission, id).Error; err != nil {
		return models.AssignmentSubmission{}, err
	}
	return submission, nil
}

func (r *assignmentSubmissionRepository) LatestByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Order("created_at DESC").
		First(&submission).Error; err != nil {
		return models.AssignmentSubmission{}, err
	}
	return submission, nil
}

func (r *assignmentSubmissionRepository) CountByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AssignmentSubmission{}).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *assignmentSubmissionRepository) Create(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *assignmentSubmissionRepository) Update(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
