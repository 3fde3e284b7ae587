// handlers/services.go - Service wiring for the HTTP layer
package handlers

import (
	"battlepost/database"
	"battlepost/services"
)

var (
	ledgerService       *services.LedgerService
	achievementService  *services.AchievementService
	missionService      *services.MissionService
	notificationService *services.NotificationService
	evaluationService   *services.EvaluationService
)

// InitServices builds the gamification services against the shared
// database. The publisher and oracle are injected by main so their
// lifecycle stays with the process, not with ambient globals.
func InitServices(publisher services.Publisher, oracle services.Oracle) {
	db := database.GetDB()
	if db == nil {
		panic("Database not initialized before InitServices")
	}

	notificationService = services.NewNotificationService(db, publisher)
	ledgerService = services.NewLedgerService(db)
	achievementService = services.NewAchievementService(db, notificationService)
	missionService = services.NewMissionService(db, achievementService, notificationService)
	evaluationService = services.NewEvaluationService(db, oracle, achievementService, notificationService)
}
