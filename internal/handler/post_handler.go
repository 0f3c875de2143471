package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rblog/rblog/internal/middleware"
	"github.com/rblog/rblog/internal/service"
	"github.com/rblog/rblog/pkg/logger"
)

type PostHandler struct {
	postService *service.PostService
	postsPage   int
}

func NewPostHandler(postService *service.PostService, postsPerPage int) *PostHandler {
	return &PostHandler{postService: postService, postsPage: postsPerPage}
}

type PostRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	post, err := h.postService.Create(user, req.Body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.postService.Get(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	post, err := h.postService.Update(user, id, req.Body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "The post has been updated",
		"post":    post,
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.postService.Delete(user, id); err != nil {
		abortWithError(c, err)
		return
	}

	logger.Log.Info("Post deleted via API",
		zap.Uint("post_id", id),
		zap.String("user_id", user.ID.String()),
	)
	c.JSON(http.StatusOK, gin.H{"message": "You have deleted the post"})
}

// List is the public front page.
func (h *PostHandler) List(c *gin.Context) {
	page := pageFromQuery(c, h.postsPage)
	posts, total, err := h.postService.List(page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(posts, page, total))
}

// Feed is the signed-in "followed" view.
func (h *PostHandler) Feed(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page := pageFromQuery(c, h.postsPage)
	posts, total, err := h.postService.Feed(user, page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(posts, page, total))
}

// ListByUser is a user's public post history.
func (h *PostHandler) ListByUser(c *gin.Context) {
	username := c.Param("username")
	page := pageFromQuery(c, h.postsPage)
	posts, total, err := h.postService.ListByUsername(username, page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(posts, page, total))
}

// pathID parses the :id path parameter, replying 400 itself on garbage.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
