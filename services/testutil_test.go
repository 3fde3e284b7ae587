// services/testutil_test.go - Shared test fixtures
package services

import (
	"path/filepath"
	"sync"
	"testing"

	"battlepost/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database with the same error
// translation the production config uses, so duplicate-key handling
// behaves identically. A single connection keeps concurrent test
// goroutines serialized instead of tripping SQLITE_BUSY.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
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
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, xp int) *models.User {
	t.Helper()

	user := &models.User{
		Name:  "tester",
		XP:    xp,
		Level: LevelForXP(xp),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", id, err)
	}
	return &user
}

// recordingPublisher captures realtime pushes for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.Notification
}

func (p *recordingPublisher) Publish(userID uint, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := payload.(*models.Notification); ok {
		p.events = append(p.events, n)
	}
	return nil
}

func (p *recordingPublisher) published() []*models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*models.Notification(nil), p.events...)
}

// newTestServices wires the full service graph against one test database.
func newTestServices(t *testing.T) (*gorm.DB, *AchievementService, *MissionService, *NotificationService, *recordingPublisher) {
	t.Helper()

	db := newTestDB(t)
	pub := &recordingPublisher{}
	notifications := NewNotificationService(db, pub)
	achievements := NewAchievementService(db, notifications)
	missions := NewMissionService(db, achievements, notifications)
	return db, achievements, missions, notifications, pub
}

func countNotifications(t *testing.T, db *gorm.DB, userID uint, typ models.NotificationType) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, typ).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	return count
}

func hasAchievement(t *testing.T, db *gorm.DB, userID uint, achievementID string) bool {
	t.Helper()

	var count int64
	if err := db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count achievements: %v", err)
	}
	return count > 0
}
