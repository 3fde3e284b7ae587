// models/daily_mission.go
package models

import "time"

// DailyMission tracks one user's sub-missions for one calendar day
// (midnight-truncated in KST). Rows are created lazily on first access
// and never deleted. The completed flags are one-way latches.
type DailyMission struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"not null;uniqueIndex:idx_daily_missions_user_date" json:"user_id"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_daily_missions_user_date" json:"date"`

	PostCompleted    bool `gorm:"default:false" json:"post_completed"`
	DrawCompleted    bool `gorm:"default:false" json:"draw_completed"`
	CommentCount     int  `gorm:"default:0" json:"comment_count"`
	CommentCompleted bool `gorm:"default:false" json:"comment_completed"`
	BonusCompleted   bool `gorm:"default:false" json:"bonus_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullyCompleted reports whether every sub-mission and the bonus latched.
func (m *DailyMission) FullyCompleted() bool {
	return m.PostCompleted && m.DrawCompleted && m.CommentCompleted && m.BonusCompleted
}
