package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/internal/utils"
)

const currentUserKey = "current_user"

// AuthMiddleware validates the session token (cookie or bearer header),
// loads the current user with their role, and bumps last_seen.
func AuthMiddleware(jwtSecret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateSessionToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil || user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// last_seen ping; losing it is not worth failing the request
		user.LastSeen = time.Now().UTC()
		_ = users.Update(user)

		c.Set("user_id", user.ID)
		c.Set("claims", claims)
		c.Set(currentUserKey, user)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

// CurrentUser returns the authenticated user set by AuthMiddleware, or nil
// for anonymous requests. A nil user satisfies no permission check.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequirePermission gates a route on a capability bitmask. Runs after
// AuthMiddleware.
func RequirePermission(required models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).Can(required) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Permission denied",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates a route on the ADMINISTER bit.
func RequireAdmin() gin.HandlerFunc {
	return RequirePermission(models.PermAdminister)
}

// RequireConfirmed blocks content routes until the account's email is
// confirmed; auth routes stay reachable so the user can confirm or resend.
func RequireConfirmed() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.Confirmed {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account not confirmed",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
