// handlers/drawings.go
package handlers

import (
	"errors"
	"strconv"

	"battlepost/database"
	"battlepost/middleware"
	"battlepost/models"
	"battlepost/services"

	"github.com/gofiber/fiber/v2"
)

type CreateDrawingRequest struct {
	ImageData   string `json:"image_data"`
	Description string `json:"description"`
}

// CreateDrawing stores the drawing and runs the full AI evaluation
// pipeline before responding, matching the submit-and-see-scores flow.
func CreateDrawing(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateDrawingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ImageData == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Image data is required"})
	}

	drawing, err := evaluationService.SubmitDrawing(c.Context(), userID, req.ImageData, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create drawing"})
	}

	db := database.GetDB()
	if err := db.Preload("Author").Preload("Evaluations").Preload("Evaluations.Bot").
		First(drawing, drawing.ID).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load drawing"})
	}

	return c.JSON(drawing)
}

// GetDrawings lists drawings newest first with cursor pagination.
func GetDrawings(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Preload("Author").Preload("Likes").
		Order("id DESC").
		Limit(feedPageSize)

	if cursor, err := strconv.ParseUint(c.Query("cursor"), 10, 64); err == nil && cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var drawings []models.Drawing
	if err := query.Find(&drawings).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch drawings"})
	}

	var nextCursor *uint
	if len(drawings) == feedPageSize {
		nextCursor = &drawings[len(drawings)-1].ID
	}

	return c.JSON(fiber.Map{
		"drawings":    drawings,
		"next_cursor": nextCursor,
	})
}

// GetTopDrawings returns the highest-scored evaluated drawings.
func GetTopDrawings(c *fiber.Ctx) error {
	db := database.GetDB()

	var drawings []models.Drawing
	if err := db.Where("status = ?", models.DrawingStatusEvaluated).
		Preload("Author").
		Order("average_score DESC").
		Limit(10).
		Find(&drawings).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch drawings"})
	}

	return c.JSON(fiber.Map{"drawings": drawings})
}

// GetDrawing returns a drawing with its per-bot evaluations.
func GetDrawing(c *fiber.Ctx) error {
	drawingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid drawing id"})
	}

	db := database.GetDB()
	var drawing models.Drawing
	if err := db.Preload("Author").
		Preload("Evaluations").
		Preload("Evaluations.Bot").
		Preload("Likes").
		First(&drawing, drawingID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Drawing not found"})
	}

	return c.JSON(drawing)
}
