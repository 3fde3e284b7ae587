// models/achievement.go
package models

import "time"

// UserAchievement records a one-time unlock. The composite unique index
// is the backstop for the at-most-once award guarantee: a racing insert
// fails with a duplicate-key error and is treated as already awarded.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievements_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:idx_user_achievements_user_achievement" json:"achievement_id"`
	AchievedAt    time.Time `json:"achieved_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
