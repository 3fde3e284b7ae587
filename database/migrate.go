// database/migrate.go - Database Migration Runner
package database

import (
	"battlepost/models"
	"log"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	// Core application models. AutoMigrate also creates the composite
	// unique indexes declared in the model tags:
	// user_achievements(user_id, achievement_id) and
	// daily_missions(user_id, date), which back the at-most-once award
	// and one-row-per-day invariants.
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Drawing{},
		&models.AIBot{},
		&models.AIEvaluation{},
		&models.DailyMission{},
		&models.UserAchievement{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	log.Println("✅ Core migrations completed")

	// Create indexes for core tables
	createCoreIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createCoreIndexes creates indexes for core tables
func createCoreIndexes() {
	db := GetDB()
	log.Println("Creating core indexes...")

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_xp ON users(xp DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")

	// Feed indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_private ON posts(is_private)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments(post_id, created_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_drawings_score ON drawings(average_score DESC)")

	// Like lookups ride the composite unique indexes AutoMigrate creates
	// from the model tags; the per-target count needs its own.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_likes_post ON likes(post_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_likes_drawing ON likes(drawing_id)")

	// Notification feed
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id, is_read)")

	// Mission streak scan
	db.Exec("CREATE INDEX IF NOT EXISTS idx_daily_missions_user_date_desc ON daily_missions(user_id, date DESC)")

	log.Println("✅ Core indexes created successfully")
}
