// handlers/likes_test.go
package handlers

import (
	"errors"
	"testing"

	"battlepost/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TestToggleLikeTogglesAndCounts(t *testing.T) {
	db := setupHandlerTest(t)
	author := createHandlerTestUser(t, db)
	fan := createHandlerTestUser(t, db)

	post := models.Post{Content: "hello", AuthorID: author.ID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	app := fiber.New()
	app.Post("/api/likes", authAs(fan.ID), ToggleLike)

	resp := performJSON(t, app, "POST", "/api/likes", fiber.Map{"post_id": post.ID})
	if resp.StatusCode != 200 {
		t.Fatalf("like status = %d, want 200", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 1 {
		t.Errorf("like rows = %d, want 1", count)
	}
	if !hasUserAchievement(t, db, author.ID, "first-like-received") {
		t.Error("expected first-like-received for the post author")
	}

	// The second tap removes the like; the award stays.
	resp = performJSON(t, app, "POST", "/api/likes", fiber.Map{"post_id": post.ID})
	if resp.StatusCode != 200 {
		t.Fatalf("unlike status = %d, want 200", resp.StatusCode)
	}
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Errorf("like rows after unlike = %d, want 0", count)
	}
	if !hasUserAchievement(t, db, author.ID, "first-like-received") {
		t.Error("unliking must not claw the award back")
	}
}

func TestToggleLikeOnDrawingChecksAuthorAchievements(t *testing.T) {
	db := setupHandlerTest(t)
	author := createHandlerTestUser(t, db)
	fan := createHandlerTestUser(t, db)

	// The likes-received count reads post likes, so seed one the check
	// has not seen yet.
	post := models.Post{Content: "hello", AuthorID: author.ID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	seeded := models.Like{UserID: fan.ID, PostID: &post.ID}
	if err := db.Create(&seeded).Error; err != nil {
		t.Fatalf("failed to seed like: %v", err)
	}

	drawing := models.Drawing{ImageURL: "data:image/png;base64,xxx", AuthorID: author.ID}
	if err := db.Create(&drawing).Error; err != nil {
		t.Fatalf("failed to create drawing: %v", err)
	}

	app := fiber.New()
	app.Post("/api/likes", authAs(fan.ID), ToggleLike)

	resp := performJSON(t, app, "POST", "/api/likes", fiber.Map{"drawing_id": drawing.ID})
	if resp.StatusCode != 200 {
		t.Fatalf("like status = %d, want 200", resp.StatusCode)
	}

	// Liking the drawing ran the check for the drawing's author.
	if !hasUserAchievement(t, db, author.ID, "first-like-received") {
		t.Error("expected the drawing like to run the author's like check")
	}
}

func TestDuplicateLikeInsertRejected(t *testing.T) {
	db := setupHandlerTest(t)
	author := createHandlerTestUser(t, db)
	fan := createHandlerTestUser(t, db)

	post := models.Post{Content: "hello", AuthorID: author.ID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	first := models.Like{UserID: fan.ID, PostID: &post.ID}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("failed to create like: %v", err)
	}

	// A racing second insert for the same pair must hit the unique
	// index, not create a second row.
	second := models.Like{UserID: fan.ID, PostID: &post.ID}
	if err := db.Create(&second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate like error = %v, want gorm.ErrDuplicatedKey", err)
	}

	var count int64
	db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", fan.ID, post.ID).Count(&count)
	if count != 1 {
		t.Errorf("like rows = %d, want 1", count)
	}

	// Likes on different drawings by the same user are unaffected.
	drawing := models.Drawing{ImageURL: "data", AuthorID: author.ID}
	if err := db.Create(&drawing).Error; err != nil {
		t.Fatalf("failed to create drawing: %v", err)
	}
	drawingLike := models.Like{UserID: fan.ID, DrawingID: &drawing.ID}
	if err := db.Create(&drawingLike).Error; err != nil {
		t.Errorf("drawing like rejected: %v", err)
	}
}

func hasUserAchievement(t *testing.T, db *gorm.DB, userID uint, achievementID string) bool {
	t.Helper()

	var count int64
	if err := db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count achievements: %v", err)
	}
	return count > 0
}
