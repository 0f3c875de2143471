package service

import (
	"go.uber.org/zap"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/pkg/logger"
)

// ModerationService toggles the disabled flag on posts and comments.
// Disabled content stays stored and editable; it is only hidden from the
// public listing paths. Routes reaching this service are MODERATE-gated.
type ModerationService struct {
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
}

func NewModerationService(postRepo *repository.PostRepository, commentRepo *repository.CommentRepository) *ModerationService {
	return &ModerationService{postRepo: postRepo, commentRepo: commentRepo}
}

// ListPosts is the moderation queue: every post, disabled included.
func (s *ModerationService) ListPosts(page repository.Page) ([]models.Post, int64, error) {
	return s.postRepo.List(page, true)
}

// ListComments is the moderation queue for comments.
func (s *ModerationService) ListComments(page repository.Page) ([]models.Comment, int64, error) {
	return s.commentRepo.ListAll(page)
}

func (s *ModerationService) SetPostDisabled(moderator *models.User, postID uint, disabled bool) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	post.Disabled = disabled
	if err := s.postRepo.Update(post); err != nil {
		return err
	}

	logger.Log.Info("Post moderation flag changed",
		zap.Uint("post_id", postID),
		zap.Bool("disabled", disabled),
		zap.String("moderator_id", moderator.ID.String()),
	)
	return nil
}

func (s *ModerationService) SetCommentDisabled(moderator *models.User, commentID uint, disabled bool) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	comment.Disabled = disabled
	if err := s.commentRepo.Update(comment); err != nil {
		return err
	}

	logger.Log.Info("Comment moderation flag changed",
		zap.Uint("comment_id", commentID),
		zap.Bool("disabled", disabled),
		zap.String("moderator_id", moderator.ID.String()),
	)
	return nil
}
