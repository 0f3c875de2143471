package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rblog/rblog/internal/models"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *PostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Author.Role").
		Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// DeleteWithComments removes a post and its comments in one transaction so
// a crash can't leave orphaned comments behind.
func (r *PostRepository) DeleteWithComments(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// List returns posts newest first. includeDisabled is true only on the
// moderation path; public listings never see disabled content.
func (r *PostRepository) List(page Page, includeDisabled bool) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	if !includeDisabled {
		query = query.Where("disabled = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := query.Preload("Author").
		Order("timestamp DESC").
		Offset(page.offset()).Limit(page.limit()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) ListByAuthor(authorID uuid.UUID, page Page, includeDisabled bool) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{}).Where("author_id = ?", authorID)
	if !includeDisabled {
		query = query.Where("disabled = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := query.Preload("Author").
		Order("timestamp DESC").
		Offset(page.offset()).Limit(page.limit()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListFollowed joins posts against the caller's follow edges, so the feed
// holds posts from every followed author. The self-follow edge created at
// registration is what pulls the caller's own posts in.
func (r *PostRepository) ListFollowed(followerID uuid.UUID, page Page) ([]models.Post, int64, error) {
	base := r.db.Model(&models.Post{}).
		Joins("JOIN follows ON follows.followed_id = posts.author_id").
		Where("follows.follower_id = ?", followerID).
		Where("posts.disabled = ?", false)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := base.Preload("Author").
		Order("posts.timestamp DESC").
		Offset(page.offset()).Limit(page.limit()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) CommentCount(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
