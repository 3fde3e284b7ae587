// models/drawing.go
package models

import "time"

const (
	DrawingStatusPending   = "PENDING"
	DrawingStatusEvaluated = "EVALUATED"
)

type Drawing struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ImageURL     string  `gorm:"type:text;not null" json:"image_url"`
	Description  string  `json:"description"`
	AuthorID     uint    `gorm:"not null;index" json:"author_id"`
	Status       string  `gorm:"default:PENDING" json:"status"`
	AverageScore float64 `gorm:"default:0" json:"average_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Author      User           `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Likes       []Like         `gorm:"foreignKey:DrawingID" json:"likes,omitempty"`
	Evaluations []AIEvaluation `gorm:"foreignKey:DrawingID" json:"evaluations,omitempty"`
}

// AIBot is a seeded evaluation persona; rows are created by cmd/seed-bots.
type AIBot struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`

	CreatedAt time.Time `json:"created_at"`
}

type AIEvaluation struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BotID     string `gorm:"not null;index" json:"bot_id"`
	DrawingID uint   `gorm:"not null;index" json:"drawing_id"`
	Score     int    `gorm:"not null" json:"score"`
	Comment   string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`

	Bot AIBot `gorm:"foreignKey:BotID" json:"bot,omitempty"`
}
