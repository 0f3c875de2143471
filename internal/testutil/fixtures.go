package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/utils"
)

// RecordingMailer captures outbound mail instead of sending it, so tests
// can read the token out of the body.
type RecordingMailer struct {
	To       []string
	Subjects []string
	Bodies   []string
}

func (m *RecordingMailer) Send(to, subject, body string) error {
	m.To = append(m.To, to)
	m.Subjects = append(m.Subjects, subject)
	m.Bodies = append(m.Bodies, body)
	return nil
}

// CreateTestUser inserts a user with the named role, a hashed password and
// the mandatory self-follow edge.
func CreateTestUser(t *testing.T, db *gorm.DB, username, email, password, roleName string) *models.User {
	t.Helper()

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("Role %q not seeded: %v", roleName, err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		Role:         &role,
		Confirmed:    true,
		AvatarHash:   models.GravatarHash(email),
		MemberSince:  now,
		LastSeen:     now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	if err := db.Create(&models.Follow{
		FollowerID: user.ID,
		FollowedID: user.ID,
		Timestamp:  now,
	}).Error; err != nil {
		t.Fatalf("Failed to create self-follow: %v", err)
	}
	return user
}

// DefaultTestUser inserts a confirmed regular member.
func DefaultTestUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "testuser", "test@example.com", "Test123456", models.RoleNameUser)
}

// DefaultAdminUser inserts a confirmed administrator.
func DefaultAdminUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "admin", "admin@example.com", "Admin123456", models.RoleNameAdministrator)
}

// DefaultModerator inserts a confirmed moderator.
func DefaultModerator(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "moderator", "mod@example.com", "Mod1234567", models.RoleNameModerator)
}

// CreateTestPost inserts a post through the entity constructor so body_html
// is derived the same way production writes are.
func CreateTestPost(t *testing.T, db *gorm.DB, author *models.User, body string) *models.Post {
	t.Helper()
	post, err := models.NewPost(author.ID, body)
	if err != nil {
		t.Fatalf("Failed to build post: %v", err)
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return post
}

// CreateTestComment inserts a comment under the given post.
func CreateTestComment(t *testing.T, db *gorm.DB, author *models.User, postID uint, body string) *models.Comment {
	t.Helper()
	comment, err := models.NewComment(author.ID, postID, body)
	if err != nil {
		t.Fatalf("Failed to build comment: %v", err)
	}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}
	return comment
}

// UniqueUser inserts a confirmed member with generated unique identity.
func UniqueUser(t *testing.T, db *gorm.DB, prefix string) *models.User {
	suffix := uuid.New().String()[:8]
	return CreateTestUser(t, db,
		fmt.Sprintf("%s_%s", prefix, suffix),
		fmt.Sprintf("%s_%s@example.com", prefix, suffix),
		"Passw0rd123",
		models.RoleNameUser,
	)
}
