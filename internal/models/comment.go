package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rblog/rblog/internal/markup"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	BodyHTML  string    `gorm:"type:text" json:"body_html"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Disabled  bool      `gorm:"default:false;index" json:"disabled"`

	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// NewComment builds a comment with the derived HTML already computed.
func NewComment(authorID uuid.UUID, postID uint, body string) (*Comment, error) {
	c := &Comment{AuthorID: authorID, PostID: postID, Timestamp: time.Now().UTC()}
	if err := c.SetBody(body); err != nil {
		return nil, err
	}
	return c, nil
}

// SetBody updates the raw body and synchronously re-derives BodyHTML using
// the inline-only tag set.
func (c *Comment) SetBody(body string) error {
	html, err := markup.RenderComment(body)
	if err != nil {
		return err
	}
	c.Body = body
	c.BodyHTML = html
	return nil
}
