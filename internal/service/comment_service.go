package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/pkg/logger"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, postRepo *repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// Create attaches a comment to a post; the inline-only HTML derivation
// happens in the entity constructor.
func (s *CommentService) Create(author *models.User, postID uint, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment, err := models.NewComment(author.ID, postID, body)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(comment); err != nil {
		logger.Log.Error("Failed to create comment",
			zap.Uint("post_id", postID),
			zap.String("author_id", author.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Comment created",
		zap.Uint("comment_id", comment.ID),
		zap.Uint("post_id", postID),
		zap.String("author_id", author.ID.String()),
	)
	return comment, nil
}

// Delete removes a comment. Only its author or an administrator may delete.
func (s *CommentService) Delete(actor *models.User, commentID uint) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != actor.ID && !actor.IsAdministrator() {
		return ErrPermissionDenied
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return err
	}

	logger.Log.Info("Comment deleted",
		zap.Uint("comment_id", commentID),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}

// ListByPost is the public thread under a post, oldest first.
func (s *CommentService) ListByPost(postID uint, page repository.Page) ([]models.Comment, int64, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, 0, err
	}
	if post == nil {
		return nil, 0, ErrPostNotFound
	}
	return s.commentRepo.ListByPost(postID, page, false)
}
