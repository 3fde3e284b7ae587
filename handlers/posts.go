// handlers/posts.go
package handlers

import (
	"context"
	"log"
	"strconv"

	"battlepost/database"
	"battlepost/middleware"
	"battlepost/models"

	"github.com/gofiber/fiber/v2"
)

const feedPageSize = 10

type CreatePostRequest struct {
	Content   string `json:"content"`
	Style     string `json:"style"`
	IsPrivate bool   `json:"is_private"`
	// Comments default to enabled when the field is omitted.
	AllowComments *bool `json:"allow_comments,omitempty"`
	BlockAI       bool  `json:"block_ai"`
}

// GetPosts returns the public feed, newest first, with id-based cursor
// pagination.
func GetPosts(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Where("is_private = ?", false).
		Preload("Author").
		Preload("Likes").
		Order("id DESC").
		Limit(feedPageSize)

	if cursor, err := strconv.ParseUint(c.Query("cursor"), 10, 64); err == nil && cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch posts"})
	}

	var nextCursor *uint
	if len(posts) == feedPageSize {
		nextCursor = &posts[len(posts)-1].ID
	}

	return c.JSON(fiber.Map{
		"posts":       posts,
		"next_cursor": nextCursor,
	})
}

// GetPost returns a single post with its author and comment tree.
func GetPost(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post id"})
	}

	db := database.GetDB()
	var post models.Post
	if err := db.Preload("Author").
		Preload("Comments", "parent_id IS NULL").
		Preload("Comments.Author").
		Preload("Comments.Replies").
		Preload("Likes").
		First(&post, postID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Post not found"})
	}

	return c.JSON(post)
}

// CreatePost stores the post, then runs the gamification checks and AI
// comment generation. Both are best effort: their failures are logged
// and never fail the creation.
func CreatePost(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreatePostRequest
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

	allowComments := true
	if req.AllowComments != nil {
		allowComments = *req.AllowComments
	}

	post := models.Post{
		Content:       req.Content,
		Style:         req.Style,
		IsPrivate:     req.IsPrivate,
		AllowComments: allowComments,
		AllowAI:       !req.BlockAI,
		AuthorID:      user.ID,
	}
	if err := db.Create(&post).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create post"})
	}

	// The post row is committed, so the count-based check sees it.
	if err := achievementService.CheckPostAchievements(user.ID); err != nil {
		log.Printf("post achievement check failed: user=%d: %v", user.ID, err)
	}

	if !post.IsPrivate && post.AllowAI {
		go func(p models.Post) {
			if err := evaluationService.CommentOnPost(context.Background(), &p); err != nil {
				log.Printf("ai comments failed: post=%d: %v", p.ID, err)
			}
		}(post)
	}

	post.Author = user
	return c.JSON(post)
}
