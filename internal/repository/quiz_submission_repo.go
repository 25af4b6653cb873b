package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/models"
)

// QuizSubmissionRepository defines persistence operations for quiz attempts.
type QuizSubmissionRepository interface {
	ListByQuiz(ctx context.Context, quizID uint) ([]models.QuizSubmission, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.QuizSubmission, error)
	ListRecent(ctx context.Context, limit int) ([]models.QuizSubmission, error)
	GetByID(ctx context.Context, id uint) (models.QuizSubmission, error)
	GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (models.QuizSubmission, error)
	Create(ctx context.Context, submission *models.QuizSubmission) error
	Update(ctx context.Context, submission *models.QuizSubmission) error
}

type quizSubmissionRepository struct {
	db *gorm.DB
}

// NewQuizSubmissionRepository instantiates a GORM-backed repository.
func NewQuizSubmissionRepository(db *gorm.DB) QuizSubmissionRepository {
	return &quizSubmissionRepository{db: db}
}

func (r *quizSubmissionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]models.QuizSubmission, error) {
	var submissions []models.QuizSubmission
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("quiz_id = ?", quizID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *quizSubmissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.QuizSubmission, error) {
	var submissions []models.QuizSubmission
	if err := r.db.WithContext(ctx).
		Preload("Quiz").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *quizSubmissionRepository) ListRecent(ctx context.Context, limit int) ([]models.QuizSubmission, error) {
	var submissions []models.QuizSubmission
	if err := r.db.WithContext(ctx).
		Preload("Quiz").
		Preload("Student").
		Order("created_at DESC").
		Limit(limit).
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *quizSubmissionRepository) GetByID(ctx context.Context, id uint) (models.QuizSubmission, error) {
	var submission models.QuizSubmission
	if err := r.db.WithContext(ctx).
		Preload("Quiz").
		Preload("Student").
		First(&submission, id).Error; err != nil {
		return models.QuizSubmission{}, err
	}
	return submission, nil
}

func (r *quizSubmissionRepository) GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (models.QuizSubmission, error) {
	var submission models.QuizSubmission
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		First(&submission).Error; err != nil {
		return models.QuizSubmission{}, err
	}
	return submission, nil
}

// Create inserts the attempt. The unique index on (quiz_id, student_id)
// surfaces concurrent duplicates as gorm.ErrDuplicatedKey.
func (r *quizSubmissionRepository) Create(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *quizSubmissionRepository) Update(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
