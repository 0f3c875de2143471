package service

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/pkg/logger"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrEmptyBody        = errors.New("body must not be empty")
)

type PostService struct {
	postRepo *repository.PostRepository
	userRepo *repository.UserRepository
}

func NewPostService(postRepo *repository.PostRepository, userRepo *repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// Create publishes a post for the author. The sanitized HTML is derived in
// the entity constructor, never supplied by the caller.
func (s *PostService) Create(author *models.User, body string) (*models.Post, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	post, err := models.NewPost(author.ID, body)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(post); err != nil {
		logger.Log.Error("Failed to create post",
			zap.String("author_id", author.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Post created",
		zap.Uint("post_id", post.ID),
		zap.String("author_id", author.ID.String()),
	)
	return post, nil
}

// Update rewrites the body (re-deriving the HTML) and refreshes the
// timestamp. Only the author or an administrator may edit.
func (s *PostService) Update(actor *models.User, postID uint, body string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != actor.ID && !actor.IsAdministrator() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	if err := post.SetBody(body); err != nil {
		return nil, err
	}
	post.Timestamp = time.Now().UTC()

	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}

	logger.Log.Info("Post updated",
		zap.Uint("post_id", post.ID),
		zap.String("actor_id", actor.ID.String()),
	)
	return post, nil
}

// Delete removes a post and all its comments atomically. Only the author or
// an administrator may delete.
func (s *PostService) Delete(actor *models.User, postID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != actor.ID && !actor.IsAdministrator() {
		return ErrPermissionDenied
	}

	if err := s.postRepo.DeleteWithComments(postID); err != nil {
		logger.Log.Error("Failed to delete post",
			zap.Uint("post_id", postID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Post deleted",
		zap.Uint("post_id", postID),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}

func (s *PostService) Get(postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// List is the public front page: enabled posts, newest first.
func (s *PostService) List(page repository.Page) ([]models.Post, int64, error) {
	return s.postRepo.List(page, false)
}

// ListByUsername is a user's public post history.
func (s *PostService) ListByUsername(username string, page repository.Page) ([]models.Post, int64, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, ErrUserNotFound
	}
	return s.postRepo.ListByAuthor(user.ID, page, false)
}

// Feed is the personalized view: posts from followed authors, which via the
// self-follow edge always includes the caller's own.
func (s *PostService) Feed(user *models.User, page repository.Page) ([]models.Post, int64, error) {
	return s.postRepo.ListFollowed(user.ID, page)
}
