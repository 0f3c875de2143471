package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rblog/rblog/internal/middleware"
	"github.com/rblog/rblog/internal/service"
)

// ModerationHandler serves the MODERATE-gated queues and the enable /
// disable toggles. Routes are mounted behind RequirePermission(PermModerate).
type ModerationHandler struct {
	moderationService *service.ModerationService
	postsPage         int
	commentsPage      int
}

func NewModerationHandler(moderationService *service.ModerationService, postsPerPage, commentsPerPage int) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
		postsPage:         postsPerPage,
		commentsPage:      commentsPerPage,
	}
}

func (h *ModerationHandler) ListPosts(c *gin.Context) {
	page := pageFromQuery(c, h.postsPage)
	posts, total, err := h.moderationService.ListPosts(page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(posts, page, total))
}

func (h *ModerationHandler) ListComments(c *gin.Context) {
	page := pageFromQuery(c, h.commentsPage)
	comments, total, err := h.moderationService.ListComments(page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(comments, page, total))
}

func (h *ModerationHandler) EnablePost(c *gin.Context)  { h.setPost(c, false) }
func (h *ModerationHandler) DisablePost(c *gin.Context) { h.setPost(c, true) }

func (h *ModerationHandler) setPost(c *gin.Context, disabled bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.moderationService.SetPostDisabled(user, id, disabled); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "disabled": disabled})
}

func (h *ModerationHandler) EnableComment(c *gin.Context)  { h.setComment(c, false) }
func (h *ModerationHandler) DisableComment(c *gin.Context) { h.setComment(c, true) }

func (h *ModerationHandler) setComment(c *gin.Context, disabled bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.moderationService.SetCommentDisabled(user, id, disabled); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "disabled": disabled})
}
