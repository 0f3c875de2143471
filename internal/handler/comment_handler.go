package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rblog/rblog/internal/middleware"
	"github.com/rblog/rblog/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
	commentsPage   int
}

func NewCommentHandler(commentService *service.CommentService, commentsPerPage int) *CommentHandler {
	return &CommentHandler{commentService: commentService, commentsPage: commentsPerPage}
}

type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// Create publishes a comment under the post in the path.
func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	comment, err := h.commentService.Create(user, postID, req.Body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Your comment has been published",
		"comment": comment,
	})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.commentService.Delete(user, id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You have deleted the comment"})
}

// ListByPost is the public comment thread, oldest first.
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	page := pageFromQuery(c, h.commentsPage)
	comments, total, err := h.commentService.ListByPost(postID, page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(comments, page, total))
}
