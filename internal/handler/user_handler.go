package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rblog/rblog/internal/middleware"
	"github.com/rblog/rblog/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	usersPage   int
}

func NewUserHandler(userService *service.UserService, usersPerPage int) *UserHandler {
	return &UserHandler{userService: userService, usersPage: usersPerPage}
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	AboutMe  string `json:"about_me"`
}

type AdminUpdateUserRequest struct {
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	Confirmed *bool   `json:"confirmed"`
	RoleID    *uint   `json:"role_id"`
	Name      *string `json:"name"`
	Location  *string `json:"location"`
	AboutMe   *string `json:"about_me"`
}

// Profile is the public profile page for a username.
func (h *UserHandler) Profile(c *gin.Context) {
	username := c.Param("username")

	user, err := h.userService.GetByUsername(username)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// Me returns the signed-in user's own record.
func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	updated, err := h.userService.UpdateProfile(user.ID, req.Name, req.Location, req.AboutMe)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Your profile has been updated",
		"user":    userJSON(updated),
	})
}

// AdminUpdateUser lets an administrator edit any profile, including role
// and confirmation state. Mounted behind RequireAdmin.
func (h *UserHandler) AdminUpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.userService.AdminUpdateUser(id, service.AdminUpdate{
		Email:     req.Email,
		Username:  req.Username,
		Confirmed: req.Confirmed,
		RoleID:    req.RoleID,
		Name:      req.Name,
		Location:  req.Location,
		AboutMe:   req.AboutMe,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "The profile has been updated",
		"user":    userJSON(updated),
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page := pageFromQuery(c, h.usersPage)
	users, total, err := h.userService.ListUsers(page)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, userJSON(&users[i]))
	}
	c.JSON(http.StatusOK, paginated(items, page, total))
}

func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.userService.ListRoles()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}
