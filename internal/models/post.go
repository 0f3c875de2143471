package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rblog/rblog/internal/markup"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	BodyHTML  string    `gorm:"type:text" json:"body_html"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Disabled  bool      `gorm:"default:false;index" json:"disabled"`

	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// NewPost builds a post with the derived HTML already computed.
func NewPost(authorID uuid.UUID, body string) (*Post, error) {
	p := &Post{AuthorID: authorID, Timestamp: time.Now().UTC()}
	if err := p.SetBody(body); err != nil {
		return nil, err
	}
	return p, nil
}

// SetBody updates the raw body and synchronously re-derives BodyHTML.
// BodyHTML must never be written any other way.
func (p *Post) SetBody(body string) error {
	html, err := markup.RenderPost(body)
	if err != nil {
		return err
	}
	p.Body = body
	p.BodyHTML = html
	return nil
}
