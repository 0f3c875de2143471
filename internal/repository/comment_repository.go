package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rblog/rblog/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *CommentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

func (r *CommentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns a post's comments oldest first, the way discussion
// threads read. Public listings exclude disabled comments.
func (r *CommentRepository) ListByPost(postID uint, page Page, includeDisabled bool) ([]models.Comment, int64, error) {
	query := r.db.Model(&models.Comment{}).Where("post_id = ?", postID)
	if !includeDisabled {
		query = query.Where("disabled = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := query.Preload("Author").
		Order("timestamp ASC").
		Offset(page.offset()).Limit(page.limit()).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ListAll is the moderation view: every comment, newest first, disabled
// included.
func (r *CommentRepository) ListAll(page Page) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := r.db.Preload("Author").
		Order("timestamp DESC").
		Offset(page.offset()).Limit(page.limit()).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
