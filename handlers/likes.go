// handlers/likes.go
package handlers

import (
	"errors"
	"log"

	"battlepost/database"
	"battlepost/middleware"
	"battlepost/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LikeRequest struct {
	PostID    *uint `json:"post_id,omitempty"`
	DrawingID *uint `json:"drawing_id,omitempty"`
}

// ToggleLike adds or removes the caller's like on a post or drawing.
// A fresh like runs the likes-received check for the liked content's
// author directly in process. Unliking never attempts to claw awards
// back; grants are one-way.
func ToggleLike(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if (req.PostID == nil) == (req.DrawingID == nil) {
		return c.Status(400).JSON(fiber.Map{"error": "Exactly one of post_id or drawing_id is required"})
	}

	db := database.GetDB()

	target := db.Where("user_id = ?", userID)
	if req.PostID != nil {
		target = target.Where("post_id = ?", *req.PostID)
	} else {
		target = target.Where("drawing_id = ?", *req.DrawingID)
	}

	var existing models.Like
	liked := false
	if err := target.First(&existing).Error; err == nil {
		if err := db.Delete(&existing).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to remove like"})
		}
	} else {
		like := models.Like{
			UserID:    userID,
			PostID:    req.PostID,
			DrawingID: req.DrawingID,
		}
		if err := db.Create(&like).Error; err != nil {
			// A racing double-tap hit the unique index; the like exists.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.Status(500).JSON(fiber.Map{"error": "Failed to add like"})
			}
			liked = true
		} else {
			liked = true

			// A fresh like runs the likes-received check for the content
			// author.
			var authorID uint
			if req.PostID != nil {
				var post models.Post
				if err := db.Select("id", "author_id").First(&post, *req.PostID).Error; err == nil {
					authorID = post.AuthorID
				}
			} else {
				var drawing models.Drawing
				if err := db.Select("id", "author_id").First(&drawing, *req.DrawingID).Error; err == nil {
					authorID = drawing.AuthorID
				}
			}
			if authorID != 0 {
				if err := achievementService.CheckLikeAchievements(authorID); err != nil {
					log.Printf("like achievement check failed: user=%d: %v", authorID, err)
				}
			}
		}
	}

	countQuery := db.Model(&models.Like{})
	if req.PostID != nil {
		countQuery = countQuery.Where("post_id = ?", *req.PostID)
	} else {
		countQuery = countQuery.Where("drawing_id = ?", *req.DrawingID)
	}
	var likeCount int64
	if err := countQuery.Count(&likeCount).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to count likes"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"is_liked":   liked,
		"like_count": likeCount,
	})
}
