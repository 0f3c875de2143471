package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	Role         *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Confirmed    bool      `gorm:"default:false" json:"confirmed"`

	// Profile
	Name       string `gorm:"type:varchar(64)" json:"name"`
	Location   string `gorm:"type:varchar(64)" json:"location"`
	AboutMe    string `gorm:"type:text" json:"about_me"`
	AvatarHash string `gorm:"type:varchar(32)" json:"avatar_hash"`

	MemberSince time.Time `gorm:"autoCreateTime" json:"member_since"`
	LastSeen    time.Time `json:"last_seen"`
}

// Can reports whether the user's role carries every bit in required.
// A nil user (anonymous) or a user without a loaded role can do nothing.
func (u *User) Can(required Permission) bool {
	if u == nil || u.Role == nil {
		return false
	}
	return u.Role.Permissions&required == required
}

func (u *User) IsAdministrator() bool {
	return u.Can(PermAdminister)
}

// GravatarHash is the md5 of the lowercased email; stored on the user so
// profile pages don't recompute it per render.
func GravatarHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// GravatarURL builds the avatar URL for the stored hash.
func (u *User) GravatarURL(size int) string {
	hash := u.AvatarHash
	if hash == "" {
		hash = GravatarHash(u.Email)
	}
	return fmt.Sprintf("https://secure.gravatar.com/avatar/%s?s=%d&d=identicon&r=g", hash, size)
}
