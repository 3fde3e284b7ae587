// cmd/seed-bots/main.go - Seeds the AI judge roster
package main

import (
	"fmt"
	"log"

	"battlepost/database"
	"battlepost/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

var bots = []models.AIBot{
	{
		ID:          "ceo",
		Name:        "Chef CEO",
		Avatar:      "/ai-avatars/ceo.png",
		Description: "Judges practicality and commercial appeal",
	},
	{
		ID:          "joker",
		Name:        "Joker",
		Avatar:      "/ai-avatars/joker.png",
		Description: "Judges work from a chaotic, satirical angle",
	},
	{
		ID:          "ai-egg",
		Name:        "AI Egg",
		Avatar:      "/ai-avatars/ai_egg.png",
		Description: "Judges energy and vitality",
	},
	{
		ID:          "parkchanho",
		Name:        "Pitcher",
		Avatar:      "/ai-avatars/parkchanho.png",
		Description: "Judges grit and determination, at great length",
	},
	{
		ID:          "simribaksa",
		Name:        "Dr. Mind",
		Avatar:      "/ai-avatars/simribaksa.png",
		Description: "Analyzes the psychology hidden in each drawing",
	},
	{
		ID:          "jisung",
		Name:        "Midfielder",
		Avatar:      "/ai-avatars/jisung.png",
		Description: "Judges teamwork and steady improvement",
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	defer database.CloseDB()
	db := database.GetDB()

	for _, bot := range bots {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "avatar", "description"}),
		}).Create(&bot).Error
		if err != nil {
			log.Fatalf("Failed to seed bot %s: %v", bot.ID, err)
		}
		fmt.Printf("Seeded bot: %s (%s)\n", bot.Name, bot.ID)
	}

	var count int64
	db.Model(&models.AIBot{}).Count(&count)
	fmt.Printf("\n✓ Total bots in database: %d\n", count)
}
