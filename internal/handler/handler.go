package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/internal/service"
)

// statusForError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500; the handler has already logged it.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrRoleNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrUsernameAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrSelfFollow):
		return http.StatusForbidden
	case errors.Is(err, service.ErrEmptyBody),
		errors.Is(err, service.ErrInvalidOrExpiredToken),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// pageFromQuery reads ?page=N; size comes from configuration per listing.
func pageFromQuery(c *gin.Context, size int) repository.Page {
	number, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || number < 1 {
		number = 1
	}
	return repository.Page{Number: number, Size: size}
}

func paginated(items interface{}, page repository.Page, total int64) gin.H {
	return gin.H{
		"items": items,
		"page":  page.Number,
		"total": total,
	}
}

func userJSON(user *models.User) gin.H {
	out := gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"confirmed":    user.Confirmed,
		"name":         user.Name,
		"location":     user.Location,
		"about_me":     user.AboutMe,
		"avatar_url":   user.GravatarURL(100),
		"member_since": user.MemberSince,
		"last_seen":    user.LastSeen,
	}
	if user.Role != nil {
		out["role"] = user.Role.Name
	}
	return out
}
