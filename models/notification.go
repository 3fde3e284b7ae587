// models/notification.go
package models

import "time"

type NotificationType string

const (
	NotificationComment      NotificationType = "COMMENT"
	NotificationAIEvaluation NotificationType = "AI_EVALUATION"
	NotificationAchievement  NotificationType = "ACHIEVEMENT"
	NotificationDailyMission NotificationType = "DAILY_MISSION"
	NotificationLevelUp      NotificationType = "LEVEL_UP"
)

// Notification rows are write-once; only IsRead ever changes, flipped to
// true when the owner fetches their feed.
type Notification struct {
	ID      uint             `gorm:"primaryKey" json:"id"`
	UserID  uint             `gorm:"not null;index" json:"user_id"`
	Type    NotificationType `gorm:"not null" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Content string           `gorm:"type:text;not null" json:"content"`
	Link    string           `json:"link,omitempty"`
	IsRead  bool             `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
}
