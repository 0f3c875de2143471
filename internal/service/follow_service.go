package service

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/pkg/logger"
)

var ErrSelfFollow = errors.New("cannot follow or unfollow yourself")

type FollowService struct {
	followRepo *repository.FollowRepository
	userRepo   *repository.UserRepository
}

func NewFollowService(followRepo *repository.FollowRepository, userRepo *repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow adds a follow edge toward the named user. Following someone you
// already follow is a no-op. The self-edge is managed by registration, so
// targeting yourself here is rejected.
func (s *FollowService) Follow(followerID uuid.UUID, username string) (*models.User, error) {
	target, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == followerID {
		return nil, ErrSelfFollow
	}

	if err := s.followRepo.Create(followerID, target.ID); err != nil {
		return nil, err
	}

	logger.Log.Info("Follow created",
		zap.String("follower_id", followerID.String()),
		zap.String("followed_id", target.ID.String()),
	)
	return target, nil
}

// Unfollow removes the edge toward the named user; absent edges are a no-op.
func (s *FollowService) Unfollow(followerID uuid.UUID, username string) (*models.User, error) {
	target, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == followerID {
		return nil, ErrSelfFollow
	}

	if err := s.followRepo.Delete(followerID, target.ID); err != nil {
		return nil, err
	}

	logger.Log.Info("Follow removed",
		zap.String("follower_id", followerID.String()),
		zap.String("followed_id", target.ID.String()),
	)
	return target, nil
}

func (s *FollowService) IsFollowing(followerID, followedID uuid.UUID) (bool, error) {
	return s.followRepo.Exists(followerID, followedID)
}

func (s *FollowService) IsFollowedBy(userID, followerID uuid.UUID) (bool, error) {
	return s.followRepo.Exists(followerID, userID)
}

// Followers lists users following the named user, with edge timestamps.
func (s *FollowService) Followers(username string, page repository.Page) ([]models.Follow, int64, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, ErrUserNotFound
	}
	return s.followRepo.Followers(user.ID, page)
}

// Following lists users the named user follows, with edge timestamps.
func (s *FollowService) Following(username string, page repository.Page) ([]models.Follow, int64, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, ErrUserNotFound
	}
	return s.followRepo.Following(user.ID, page)
}
