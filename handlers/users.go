// handlers/users.go
package handlers

import (
	"battlepost/database"
	"battlepost/middleware"
	"battlepost/models"
	"battlepost/services"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentUser returns the caller's profile and progression.
func GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"user":             userInfo(user),
		"xp_to_next_level": services.XPForNextLevel(user.XP),
	})
}

type UpdateProfileRequest struct {
	Nickname string `json:"nickname"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// UpdateCurrentUser edits the caller's display fields.
func UpdateCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	user.Nickname = req.Nickname
	user.Bio = req.Bio
	user.Image = req.Image
	if err := db.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"success": true, "user": userInfo(user)})
}

// GetUserProfile returns a public profile with content counts.
func GetUserProfile(c *fiber.Ctx) error {
	profileID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, profileID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var postCount, commentCount, drawingCount int64
	db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&postCount)
	db.Model(&models.Comment{}).Where("author_id = ? AND is_ai = ?", user.ID, false).Count(&commentCount)
	db.Model(&models.Drawing{}).Where("author_id = ?", user.ID).Count(&drawingCount)

	return c.JSON(fiber.Map{
		"user":          userInfo(user),
		"post_count":    postCount,
		"comment_count": commentCount,
		"drawing_count": drawingCount,
	})
}

// GetRanking returns the top users by XP.
func GetRanking(c *fiber.Ctx) error {
	db := database.GetDB()

	var users []models.User
	if err := db.Where("is_guest = ?", false).
		Order("xp DESC").
		Limit(20).
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch ranking"})
	}

	ranking := make([]fiber.Map, 0, len(users))
	for i, user := range users {
		ranking = append(ranking, fiber.Map{
			"rank":  i + 1,
			"id":    user.ID,
			"name":  user.DisplayName(),
			"image": user.Image,
			"level": user.Level,
			"xp":    user.XP,
		})
	}

	return c.JSON(fiber.Map{"ranking": ranking})
}
