// services/evaluation.go - AI Evaluation Pipeline
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"battlepost/models"

	"gorm.io/gorm"
)

// Oracle is the opaque AI collaborator: it produces bot scores,
// comments and replies. Scores and copy are consumed as-is; the core
// never interprets them beyond aggregation.
type Oracle interface {
	EvaluateDrawing(ctx context.Context, botID, imageData, description string) (score int, comment string, err error)
	GenerateComment(ctx context.Context, botID, postContent string) (string, error)
	GenerateReply(ctx context.Context, botID, userComment, postContent string) (string, error)
}

// EvaluationService stores drawings, fans them out to every registered
// bot through the Oracle, and aggregates the scores.
type EvaluationService struct {
	db            *gorm.DB
	oracle        Oracle
	achievements  *AchievementService
	notifications *NotificationService
}

func NewEvaluationService(db *gorm.DB, oracle Oracle, achievements *AchievementService, notifications *NotificationService) *EvaluationService {
	return &EvaluationService{
		db:            db,
		oracle:        oracle,
		achievements:  achievements,
		notifications: notifications,
	}
}

// SubmitDrawing persists the drawing, runs the achievement check against
// the committed row, then collects one evaluation per bot. Bot failures
// are skipped; the average is computed over the evaluations that landed.
func (s *EvaluationService) SubmitDrawing(ctx context.Context, userID uint, imageData, description string) (*models.Drawing, error) {
	var user models.User
	if err := s.db.Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	drawing := &models.Drawing{
		ImageURL:    imageData,
		Description: description,
		AuthorID:    userID,
		Status:      models.DrawingStatusPending,
	}
	if err := s.db.Create(drawing).Error; err != nil {
		return nil, err
	}

	// The drawing row is committed, so the count the check reads
	// includes it. Gamification stays best effort for the submission.
	if err := s.achievements.CheckDrawingAchievements(userID); err != nil {
		log.Printf("drawing achievement check failed: user=%d: %v", userID, err)
	}

	if err := s.Evaluate(ctx, drawing); err != nil {
		log.Printf("drawing evaluation failed: drawing=%d: %v", drawing.ID, err)
	}

	return drawing, nil
}

// Evaluate asks every registered bot to score the drawing and stores the
// aggregate, rounded to one decimal.
func (s *EvaluationService) Evaluate(ctx context.Context, drawing *models.Drawing) error {
	if s.oracle == nil {
		return nil
	}

	var bots []models.AIBot
	if err := s.db.Find(&bots).Error; err != nil {
		return err
	}

	total := 0
	scored := 0
	for _, bot := range bots {
		score, comment, err := s.oracle.EvaluateDrawing(ctx, bot.ID, drawing.ImageURL, drawing.Description)
		if err != nil {
			log.Printf("bot evaluation failed: bot=%s drawing=%d: %v", bot.ID, drawing.ID, err)
			continue
		}
		evaluation := models.AIEvaluation{
			BotID:     bot.ID,
			DrawingID: drawing.ID,
			Score:     score,
			Comment:   comment,
		}
		if err := s.db.Create(&evaluation).Error; err != nil {
			return err
		}
		total += score
		scored++
	}

	if scored == 0 {
		return nil
	}

	average := math.Round(float64(total)/float64(scored)*10) / 10
	drawing.AverageScore = average
	drawing.Status = models.DrawingStatusEvaluated
	if err := s.db.Model(drawing).Updates(map[string]interface{}{
		"average_score": average,
		"status":        models.DrawingStatusEvaluated,
	}).Error; err != nil {
		return err
	}

	if _, err := s.notifications.Notify(drawing.AuthorID, models.NotificationAIEvaluation,
		"AI evaluation complete",
		fmt.Sprintf("%d bots scored your drawing. Average score: %.1f", scored, average),
		fmt.Sprintf("/ai-evaluation/%d", drawing.ID)); err != nil {
		log.Printf("evaluation notification failed: drawing=%d: %v", drawing.ID, err)
	}

	return nil
}

// CommentOnPost lets every bot leave one comment on a fresh public post.
// Existing bot comments mean the generation already ran.
func (s *EvaluationService) CommentOnPost(ctx context.Context, post *models.Post) error {
	if s.oracle == nil || post.IsPrivate || !post.AllowAI {
		return nil
	}

	var existing int64
	if err := s.db.Model(&models.Comment{}).Where("post_id = ? AND is_ai = ?", post.ID, true).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var bots []models.AIBot
	if err := s.db.Find(&bots).Error; err != nil {
		return err
	}

	for _, bot := range bots {
		content, err := s.oracle.GenerateComment(ctx, bot.ID, post.Content)
		if err != nil {
			log.Printf("bot comment failed: bot=%s post=%d: %v", bot.ID, post.ID, err)
			continue
		}
		comment := models.Comment{
			Content: content,
			PostID:  post.ID,
			IsAI:    true,
			AIType:  bot.ID,
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReplyToComment generates a bot answer under a user's reply to one of
// the bot's comments.
func (s *EvaluationService) ReplyToComment(ctx context.Context, parent *models.Comment, userComment *models.Comment, postContent string) (*models.Comment, error) {
	if s.oracle == nil || !parent.IsAI || parent.AIType == "" {
		return nil, nil
	}

	content, err := s.oracle.GenerateReply(ctx, parent.AIType, userComment.Content, postContent)
	if err != nil {
		return nil, err
	}

	reply := models.Comment{
		Content:  content,
		PostID:   userComment.PostID,
		ParentID: &userComment.ID,
		IsAI:     true,
		AIType:   parent.AIType,
	}
	if err := s.db.Create(&reply).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}
