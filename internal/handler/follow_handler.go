package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rblog/rblog/internal/middleware"
	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/service"
)

type FollowHandler struct {
	followService *service.FollowService
	followsPage   int
}

func NewFollowHandler(followService *service.FollowService, followsPerPage int) *FollowHandler {
	return &FollowHandler{followService: followService, followsPage: followsPerPage}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	username := c.Param("username")
	user := middleware.CurrentUser(c)

	target, err := h.followService.Follow(user.ID, username)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You are now following " + target.Username,
	})
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	user := middleware.CurrentUser(c)

	target, err := h.followService.Unfollow(user.ID, username)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You are not following " + target.Username + " anymore",
	})
}

func (h *FollowHandler) Followers(c *gin.Context) {
	username := c.Param("username")
	page := pageFromQuery(c, h.followsPage)

	follows, total, err := h.followService.Followers(username, page)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items := make([]gin.H, 0, len(follows))
	for _, f := range follows {
		items = append(items, followJSON(f.Follower, f))
	}
	c.JSON(http.StatusOK, paginated(items, page, total))
}

func (h *FollowHandler) Following(c *gin.Context) {
	username := c.Param("username")
	page := pageFromQuery(c, h.followsPage)

	follows, total, err := h.followService.Following(username, page)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items := make([]gin.H, 0, len(follows))
	for _, f := range follows {
		items = append(items, followJSON(f.Followed, f))
	}
	c.JSON(http.StatusOK, paginated(items, page, total))
}

func followJSON(user *models.User, f models.Follow) gin.H {
	item := gin.H{"timestamp": f.Timestamp}
	if user != nil {
		item["username"] = user.Username
		item["avatar_url"] = user.GravatarURL(50)
	}
	return item
}
