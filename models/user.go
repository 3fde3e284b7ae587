// models/user.go
package models

import (
	"time"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `json:"-"`
	Name     string  `gorm:"not null" json:"name"`
	Nickname string  `json:"nickname"`
	Image    string  `json:"image"`
	Bio      string  `json:"bio"`
	IsGuest  bool    `gorm:"default:false" json:"is_guest"`

	// Progression. Level is always written together with XP and derived
	// as xp/200 + 1; it never drifts from the XP counter.
	Level int `gorm:"default:1" json:"level"`
	XP    int `gorm:"default:0" json:"xp"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Posts         []Post            `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Drawings      []Drawing         `gorm:"foreignKey:AuthorID" json:"drawings,omitempty"`
	Achievements  []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	DailyMissions []DailyMission    `gorm:"foreignKey:UserID" json:"daily_missions,omitempty"`
}

// DisplayName returns the name shown next to the user's content.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}
