package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/models"
)

// CourseRepository defines persistence operations for courses and the
// enrollment join table.
type CourseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error)
	ListEnrolled(ctx context.Context, studentID uint) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	ListRecentEnrollments(ctx context.Context, limit int) ([]models.Enrollment, error)
	Unenroll(ctx context.Context, studentID, courseID uint) error
	IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error)
	ListStudents(ctx context.Context, courseID uint) ([]models.User, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Preload("Teacher").Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Where("created_by_user_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListEnrolled(ctx context.Context, studentID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", studentID).
		Order("enrollments.created_at ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Teacher").First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// Delete removes the course and all dependent content in one transaction.
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Enrollment{},
			&models.Lesson{},
			&models.Announcement{},
		} {
			if err := tx.Where("course_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("assignment_id IN (?)",
			tx.Model(&models.Assignment{}).Select("id").Where("course_id = ?", id),
		).Delete(&models.AssignmentSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("quiz_id IN (?)",
			tx.Model(&models.Quiz{}).Select("id").Where("course_id = ?", id),
		).Delete(&models.QuizSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id IN (?)",
			tx.Model(&models.DiscussionPost{}).Select("id").Where("course_id = ?", id),
		).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.DiscussionPost{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Course{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *courseRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *courseRepository) ListRecentEnrollments(ctx context.Context, limit int) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Course").
		Order("created_at DESC").
		Limit(limit).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *courseRepository) Unenroll(ctx context.Context, studentID, courseID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", studentID, courseID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepository) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepository) ListStudents(ctx context.Context, courseID uint) ([]models.User, error) {
	var students []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Order("users.username ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}
