// handlers/comments.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"battlepost/database"
	"battlepost/middleware"
	"battlepost/models"
	"battlepost/services"
	"battlepost/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// GetComments lists a post's top-level comments with their replies.
func GetComments(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post id"})
	}

	db := database.GetDB()
	var comments []models.Comment
	if err := db.Where("post_id = ? AND parent_id IS NULL", postID).
		Preload("Author").
		Preload("Replies").
		Preload("Replies.Author").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch comments"})
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment stores the comment, notifies the post author and (for
// replies) the parent author, then runs the comment achievement check.
// A reply to a bot comment gets an AI answer generated in the
// background.
func CreateComment(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post id"})
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Content is required"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Post not found"})
	}
	if !post.AllowComments {
		return c.Status(403).JSON(fiber.Map{"error": "Comments are disabled for this post"})
	}

	var parent *models.Comment
	if req.ParentID != nil {
		var p models.Comment
		if err := db.First(&p, *req.ParentID).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Parent comment not found"})
		}
		parent = &p
	}

	comment := models.Comment{
		Content:  req.Content,
		PostID:   post.ID,
		AuthorID: &user.ID,
		ParentID: req.ParentID,
	}
	if err := db.Create(&comment).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create comment"})
	}

	preview := utils.Truncate(req.Content, 30)

	// Notify the post author, but never about their own comment.
	if post.AuthorID != user.ID {
		if _, err := notificationService.Notify(post.AuthorID, models.NotificationComment,
			"New comment",
			fmt.Sprintf("%s commented on your post: %s", user.DisplayName(), preview),
			fmt.Sprintf("/post/%d", post.ID)); err != nil {
			log.Printf("comment notification failed: post=%d: %v", post.ID, err)
		}
	}

	// Replies also notify the parent comment's author.
	if parent != nil && parent.AuthorID != nil && *parent.AuthorID != user.ID {
		if _, err := notificationService.Notify(*parent.AuthorID, models.NotificationComment,
			"New reply",
			fmt.Sprintf("%s replied to your comment: %s", user.DisplayName(), preview),
			fmt.Sprintf("/post/%d", post.ID)); err != nil {
			log.Printf("reply notification failed: comment=%d: %v", parent.ID, err)
		}
	}

	if err := achievementService.CheckCommentAchievements(user.ID); err != nil {
		log.Printf("comment achievement check failed: user=%d: %v", user.ID, err)
	}

	// Every comment also advances today's comment mission. A latched
	// mission is a no-op, not a failure.
	if _, err := missionService.RecordProgress(user.ID, services.MissionComment); err != nil &&
		!errors.Is(err, services.ErrMissionAlreadyCompleted) {
		log.Printf("comment mission progress failed: user=%d: %v", user.ID, err)
	}

	if parent != nil && parent.IsAI {
		go func(parent, userComment models.Comment, postContent string) {
			if _, err := evaluationService.ReplyToComment(context.Background(), &parent, &userComment, postContent); err != nil {
				log.Printf("ai reply failed: comment=%d: %v", userComment.ID, err)
			}
		}(*parent, comment, post.Content)
	}

	comment.Author = &user
	return c.JSON(comment)
}
