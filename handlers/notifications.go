// handlers/notifications.go
package handlers

import (
	"strconv"

	"battlepost/database"
	"battlepost/middleware"
	"battlepost/models"

	"github.com/gofiber/fiber/v2"
)

const notificationPageSize = 20

// GetNotifications returns the caller's feed newest first and flips the
// unread rows to read, so fetching the feed is the acknowledgement.
func GetNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	query := db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(notificationPageSize)

	if cursor, err := strconv.ParseUint(c.Query("cursor"), 10, 64); err == nil && cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to mark notifications read"})
	}

	var nextCursor *uint
	if len(notifications) == notificationPageSize {
		nextCursor = &notifications[len(notifications)-1].ID
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"next_cursor":   nextCursor,
	})
}

// GetNotificationCount returns the unread count; failures degrade to 0
// so a badge fetch can never break the page.
func GetNotificationCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.JSON(fiber.Map{"count": 0})
	}

	db := database.GetDB()
	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return c.JSON(fiber.Map{"count": 0})
	}

	return c.JSON(fiber.Map{"count": count})
}
