// models/post.go
package models

import "time"

type Post struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Content       string `gorm:"type:text;not null" json:"content"`
	Style         string `json:"style"`
	IsPrivate     bool   `gorm:"default:false" json:"is_private"`
	AllowComments bool   `gorm:"default:true" json:"allow_comments"`
	AllowAI       bool   `gorm:"default:true" json:"allow_ai"`
	AuthorID      uint   `gorm:"not null;index" json:"author_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Author   User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Likes    []Like    `gorm:"foreignKey:PostID" json:"likes,omitempty"`
}

type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	// AuthorID is nil for AI bot comments; those carry the bot
	// identifier in AIType instead so replies can be routed back to the
	// same persona.
	AuthorID *uint `gorm:"index" json:"author_id,omitempty"`
	ParentID *uint `gorm:"index" json:"parent_id,omitempty"`

	IsAI   bool   `gorm:"default:false" json:"is_ai"`
	AIType string `json:"ai_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Author  *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Post    Post      `gorm:"foreignKey:PostID" json:"-"`
	Parent  *Comment  `gorm:"foreignKey:ParentID" json:"-"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

// Like targets exactly one of PostID or DrawingID. The composite unique
// indexes are the backstop for the toggle's check-then-create: racing
// double-taps fail with a duplicate key instead of inflating the
// likes-received count the achievement thresholds read.
type Like struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"not null;uniqueIndex:idx_likes_user_post;uniqueIndex:idx_likes_user_drawing" json:"user_id"`
	PostID    *uint `gorm:"uniqueIndex:idx_likes_user_post" json:"post_id,omitempty"`
	DrawingID *uint `gorm:"uniqueIndex:idx_likes_user_drawing" json:"drawing_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
