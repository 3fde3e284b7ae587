// services/catalog.go - Static Achievement Catalog
package services

// Achievement definitions are fixed at build time; there is no runtime
// creation and the ids are referenced by the trigger checks below.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XPReward    int    `json:"xp_reward"`
}

var Achievements = []Achievement{
	// Posts
	{
		ID:          "first-post",
		Title:       "First Post",
		Description: "Wrote your very first post.",
		XPReward:    100,
	},
	{
		ID:          "post-master",
		Title:       "Master Writer",
		Description: "Wrote 10 posts.",
		XPReward:    300,
	},
	// Comments
	{
		ID:          "first-comment",
		Title:       "First Comment",
		Description: "Left your very first comment.",
		XPReward:    50,
	},
	{
		ID:          "comment-master",
		Title:       "Comment Expert",
		Description: "Left 30 comments.",
		XPReward:    200,
	},
	// Likes received
	{
		ID:          "first-like-received",
		Title:       "First Recognition",
		Description: "Received your first like.",
		XPReward:    50,
	},
	{
		ID:          "like-master",
		Title:       "Crowd Favorite",
		Description: "Received 50 likes.",
		XPReward:    300,
	},
	// Drawings
	{
		ID:          "first-drawing",
		Title:       "First Drawing",
		Description: "Drew your very first drawing.",
		XPReward:    100,
	},
	{
		ID:          "drawing-master",
		Title:       "Master Artist",
		Description: "Drew 10 drawings.",
		XPReward:    400,
	},
	// Daily missions
	{
		ID:          "daily-mission-complete",
		Title:       "Diligent User",
		Description: "Completed all daily missions for the first time.",
		XPReward:    150,
	},
	{
		ID:          "daily-mission-streak",
		Title:       "Mission Master",
		Description: "Completed the daily missions 5 days in a row.",
		XPReward:    500,
	},
	// Levels
	{
		ID:          "level-10",
		Title:       "Growing Up",
		Description: "Reached level 10.",
		XPReward:    200,
	},
	{
		ID:          "level-30",
		Title:       "Path of the Master",
		Description: "Reached level 30.",
		XPReward:    500,
	},
}

// AchievementByID looks up a catalog entry.
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
