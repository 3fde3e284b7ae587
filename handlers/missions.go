// handlers/missions.go
package handlers

import (
	"errors"

	"battlepost/middleware"
	"battlepost/services"

	"github.com/gofiber/fiber/v2"
)

type MissionProgressRequest struct {
	MissionType string `json:"mission_type"`
}

// GetDailyMission returns today's mission state, creating the row on
// first access.
func GetDailyMission(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	mission, err := missionService.GetToday(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch daily mission"})
	}

	return c.JSON(mission)
}

// CompleteDailyMission advances one sub-mission. A repeat on an already
// latched sub-mission is reported as a no-op, not a server error.
func CompleteDailyMission(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req MissionProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := missionService.RecordProgress(userID, services.MissionType(req.MissionType))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissionAlreadyCompleted):
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "Mission already completed",
			})
		case errors.Is(err, services.ErrInvalidMissionType):
			return c.Status(400).JSON(fiber.Map{"error": "Invalid mission type"})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Failed to record mission progress"})
		}
	}

	response := fiber.Map{
		"success":         true,
		"xp_gained":       result.XPGained,
		"mission":         result.Mission,
		"bonus_completed": result.BonusCompleted,
	}
	if result.Ledger != nil {
		response["new_xp"] = result.Ledger.NewXP
		response["new_level"] = result.Ledger.NewLevel
		response["leveled_up"] = result.Ledger.LeveledUp
	}

	return c.JSON(response)
}
