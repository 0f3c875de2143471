package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rblog/rblog/internal/models"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts a follow edge. No-op when the edge already exists, so
// repeated follows stay idempotent.
func (r *FollowRepository) Create(followerID, followedID uuid.UUID) error {
	exists, err := r.Exists(followerID, followedID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return r.db.Create(&models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		Timestamp:  time.Now().UTC(),
	}).Error
}

// Delete removes a follow edge. No-op when the edge is absent.
func (r *FollowRepository) Delete(followerID, followedID uuid.UUID) error {
	return r.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

func (r *FollowRepository) Exists(followerID, followedID uuid.UUID) (bool, error) {
	var follow models.Follow
	err := r.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Followers lists the edges pointing at userID, most recent first.
func (r *FollowRepository) Followers(userID uuid.UUID, page Page) ([]models.Follow, int64, error) {
	var total int64
	if err := r.db.Model(&models.Follow{}).
		Where("followed_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	err := r.db.Preload("Follower").
		Where("followed_id = ?", userID).
		Order("timestamp DESC").
		Offset(page.offset()).Limit(page.limit()).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}
	return follows, total, nil
}

// Following lists the edges leaving userID, most recent first.
func (r *FollowRepository) Following(userID uuid.UUID, page Page) ([]models.Follow, int64, error) {
	var total int64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	err := r.db.Preload("Followed").
		Where("follower_id = ?", userID).
		Order("timestamp DESC").
		Offset(page.offset()).Limit(page.limit()).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}
	return follows, total, nil
}
