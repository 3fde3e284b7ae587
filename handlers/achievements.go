// handlers/achievements.go
package handlers

import (
	"time"

	"battlepost/database"
	"battlepost/middleware"
	"battlepost/models"
	"battlepost/services"

	"github.com/gofiber/fiber/v2"
)

// GetAchievements returns the whole catalog annotated with the caller's
// unlock timestamps.
func GetAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var unlocked []models.UserAchievement
	if err := db.Where("user_id = ?", userID).Find(&unlocked).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	achievedAt := make(map[string]time.Time, len(unlocked))
	for _, ua := range unlocked {
		achievedAt[ua.AchievementID] = ua.AchievedAt
	}

	achievements := make([]fiber.Map, 0, len(services.Achievements))
	for _, a := range services.Achievements {
		entry := fiber.Map{
			"id":          a.ID,
			"title":       a.Title,
			"description": a.Description,
			"xp_reward":   a.XPReward,
			"achieved_at": nil,
		}
		if at, ok := achievedAt[a.ID]; ok {
			entry["achieved_at"] = at
		}
		achievements = append(achievements, entry)
	}

	return c.JSON(fiber.Map{
		"achievements": achievements,
		"total":        len(services.Achievements),
		"unlocked":     len(unlocked),
	})
}
