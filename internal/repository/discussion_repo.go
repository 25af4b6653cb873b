package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/models"
)

// DiscussionRepository defines persistence operations for discussion posts
// and their reply trees.
type DiscussionRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.DiscussionPost, error)
	ListRecentPosts(ctx context.Context, limit int) ([]models.DiscussionPost, error)
	GetPost(ctx context.Context, id uint) (models.DiscussionPost, error)
	CreatePost(ctx context.Context, post *models.DiscussionPost) error
	UpdatePost(ctx context.Context, post *models.DiscussionPost) error
	DeletePost(ctx context.Context, id uint) error

	GetReply(ctx context.Context, id uint) (models.Reply, error)
	CreateReply(ctx context.Context, reply *models.Reply) error
	UpdateReply(ctx context.Context, reply *models.Reply) error
	DeleteReply(ctx context.Context, id uint) error

	CountPostsByAuthor(ctx context.Context, courseID, authorID uint) (int64, error)
	CountRepliesByAuthor(ctx context.Context, courseID, authorID uint) (int64, error)
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository instantiates a GORM-backed repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.DiscussionPost, error) {
	var posts []models.DiscussionPost
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *discussionRepository) ListRecentPosts(ctx context.Context, limit int) ([]models.DiscussionPost, error) {
	var posts []models.DiscussionPost
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *discussionRepository) GetPost(ctx context.Context, id uint) (models.DiscussionPost, error) {
	var post models.DiscussionPost
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("replies.created_at ASC")
		}).
		Preload("Replies.Author").
		First(&post, id).Error; err != nil {
		return models.DiscussionPost{}, err
	}
	return post, nil
}

func (r *discussionRepository) CreatePost(ctx context.Context, post *models.DiscussionPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *discussionRepository) UpdatePost(ctx context.Context, post *models.DiscussionPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// DeletePost removes the post and its replies.
func (r *discussionRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.DiscussionPost{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *discussionRepository) GetReply(ctx context.Context, id uint) (models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		return models.Reply{}, err
	}
	return reply, nil
}

func (r *discussionRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *discussionRepository) UpdateReply(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Save(reply).Error
}

// DeleteReply removes the reply and re-parents its children to the deleted
// reply's parent so the thread stays connected.
func (r *discussionRepository) DeleteReply(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reply models.Reply
		if err := tx.First(&reply, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Reply{}).
			Where("parent_reply_id = ?", id).
			Update("parent_reply_id", reply.ParentReplyID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Reply{}, id).Error
	})
}

func (r *discussionRepository) CountPostsByAuthor(ctx context.Context, courseID, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DiscussionPost{}).
		Where("course_id = ? AND author_id = ?", courseID, authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *discussionRepository) CountRepliesByAuthor(ctx context.Context, courseID, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Reply{}).
		Joins("JOIN discussion_posts ON discussion_posts.id = replies.post_id").
		Where("discussion_posts.course_id = ? AND replies.author_id = ?", courseID, authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
