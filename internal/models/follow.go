package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: follower follows followed. Every user carries a
// self-edge from account creation so feed queries can treat "own posts" and
// "followed posts" uniformly.
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"follower_id"`
	FollowedID uuid.UUID `gorm:"type:uuid;primaryKey" json:"followed_id"`
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`

	Follower *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"follower,omitempty"`
	Followed *User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"followed,omitempty"`
}

func (Follow) TableName() string {
	return "follows"
}
