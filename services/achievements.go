// services/achievements.go - Achievement Engine
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"battlepost/models"

	"gorm.io/gorm"
)

var ErrAchievementNotFound = errors.New("achievement not found")

// AchievementService grants each catalog achievement at most once per
// user. The check-then-create runs inside one transaction and the
// unique index on (user_id, achievement_id) is the backstop for races:
// a duplicate-key insert is treated as a benign "already awarded".
type AchievementService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewAchievementService(db *gorm.DB, notifications *NotificationService) *AchievementService {
	return &AchievementService{db: db, notifications: notifications}
}

type awardOutcome struct {
	awarded bool
	pending []*models.Notification
}

// CheckAndAward grants the achievement unless the user already has it.
// Returns whether a new award was created.
func (s *AchievementService) CheckAndAward(userID uint, achievementID string) (bool, error) {
	var outcome awardOutcome
	err := s.db.Transaction(func(tx *gorm.DB) error {
		o, err := s.award(tx, userID, achievementID, true)
		outcome = o
		return err
	})
	if err != nil {
		return false, err
	}
	s.notifications.publishAll(outcome.pending)
	return outcome.awarded, nil
}

// award performs the check-then-create, XP grant and notifications
// inside tx. levelPass gates the level-gated re-check: awards made from
// that re-check run with it disabled, so a level-up can enqueue level
// achievements exactly once and chains cannot re-enter.
func (s *AchievementService) award(tx *gorm.DB, userID uint, achievementID string, levelPass bool) (awardOutcome, error) {
	achievement, ok := AchievementByID(achievementID)
	if !ok {
		return awardOutcome{}, ErrAchievementNotFound
	}

	var existing models.UserAchievement
	err := tx.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&existing).Error
	if err == nil {
		return awardOutcome{}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return awardOutcome{}, err
	}

	record := models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		AchievedAt:    time.Now(),
	}
	if err := tx.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent trigger won the race between our check and
			// our insert. Same outcome as already awarded.
			log.Printf("duplicate achievement grant suppressed: user=%d achievement=%s", userID, achievementID)
			return awardOutcome{}, nil
		}
		return awardOutcome{}, err
	}

	result, err := grantXPTx(tx, userID, achievement.XPReward)
	if err != nil {
		return awardOutcome{}, err
	}

	outcome := awardOutcome{awarded: true}

	n, err := s.notifications.createTx(tx, userID, models.NotificationAchievement,
		"Achievement unlocked!",
		fmt.Sprintf("You unlocked %q and earned %d XP!", achievement.Title, achievement.XPReward),
		"/achievements")
	if err != nil {
		return awardOutcome{}, err
	}
	outcome.pending = append(outcome.pending, n)

	if result.LeveledUp {
		n, err := s.notifications.createTx(tx, userID, models.NotificationLevelUp,
			"Level up!",
			fmt.Sprintf("Congratulations! You went from level %d to level %d!", result.PreviousLevel, result.NewLevel),
			"/profile")
		if err != nil {
			return awardOutcome{}, err
		}
		outcome.pending = append(outcome.pending, n)

		if levelPass {
			passed, err := s.levelPassTx(tx, userID, result.NewLevel)
			if err != nil {
				return awardOutcome{}, err
			}
			outcome.pending = append(outcome.pending, passed...)
		}
	}

	return outcome, nil
}

// levelPassTx grants level-gated achievements for the level just
// reached. It runs with the pass disabled so these grants cannot chain
// into further passes even if their XP reward levels the user up again.
func (s *AchievementService) levelPassTx(tx *gorm.DB, userID uint, level int) ([]*models.Notification, error) {
	var pending []*models.Notification
	for _, id := range levelAchievementIDs(level) {
		o, err := s.award(tx, userID, id, false)
		if err != nil {
			return nil, err
		}
		pending = append(pending, o.pending...)
	}
	return pending, nil
}

func levelAchievementIDs(level int) []string {
	switch level {
	case 10:
		return []string{"level-10"}
	case 30:
		return []string{"level-30"}
	}
	return nil
}

// checkCountThresholds awards the achievement bound to the exact count
// just reached. The exact match (== rather than >=) is deliberate: the
// checks fire from +1 increments, so a replayed trigger at the same
// count cannot re-award and a count past the threshold stays silent.
func (s *AchievementService) checkCountThresholds(userID uint, count int64, thresholds map[int64]string) error {
	id, ok := thresholds[count]
	if !ok {
		return nil
	}
	_, err := s.CheckAndAward(userID, id)
	return err
}

// CheckPostAchievements runs the post-count checks for the user.
func (s *AchievementService) CheckPostAchievements(userID uint) error {
	var count int64
	if err := s.db.Model(&models.Post{}).Where("author_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	return s.checkCountThresholds(userID, count, map[int64]string{
		1:  "first-post",
		10: "post-master",
	})
}

// CheckCommentAchievements runs the comment-count checks for the user.
func (s *AchievementService) CheckCommentAchievements(userID uint) error {
	var count int64
	if err := s.db.Model(&models.Comment{}).Where("author_id = ? AND is_ai = ?", userID, false).Count(&count).Error; err != nil {
		return err
	}
	return s.checkCountThresholds(userID, count, map[int64]string{
		1:  "first-comment",
		30: "comment-master",
	})
}

// CheckLikeAchievements counts likes received on the user's posts.
func (s *AchievementService) CheckLikeAchievements(userID uint) error {
	var count int64
	if err := s.db.Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.author_id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	return s.checkCountThresholds(userID, count, map[int64]string{
		1:  "first-like-received",
		50: "like-master",
	})
}

// CheckDrawingAchievements runs the drawing-count checks for the user.
func (s *AchievementService) CheckDrawingAchievements(userID uint) error {
	var count int64
	if err := s.db.Model(&models.Drawing{}).Where("author_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	return s.checkCountThresholds(userID, count, map[int64]string{
		1:  "first-drawing",
		10: "drawing-master",
	})
}

// CheckDailyMissionAchievements checks the first fully-completed day and
// the 5-day streak. A streak is the 5 most recent fully-completed days
// forming a contiguous run with adjacent dates exactly one day apart.
func (s *AchievementService) CheckDailyMissionAchievements(userID uint) error {
	var missions []models.DailyMission
	if err := s.db.
		Where("user_id = ? AND post_completed = ? AND draw_completed = ? AND comment_completed = ? AND bonus_completed = ?",
			userID, true, true, true, true).
		Order("date DESC").
		Find(&missions).Error; err != nil {
		return err
	}

	if len(missions) == 1 {
		if _, err := s.CheckAndAward(userID, "daily-mission-complete"); err != nil {
			return err
		}
	}

	if len(missions) >= 5 && isContiguousStreak(missions[:5]) {
		if _, err := s.CheckAndAward(userID, "daily-mission-streak"); err != nil {
			return err
		}
	}

	return nil
}

// isContiguousStreak expects missions sorted by date descending.
func isContiguousStreak(missions []models.DailyMission) bool {
	for i := 1; i < len(missions); i++ {
		if missions[i-1].Date.Sub(missions[i].Date) != 24*time.Hour {
			return false
		}
	}
	return true
}

// CheckLevelAchievements runs the level-gated checks against the user's
// current level.
func (s *AchievementService) CheckLevelAchievements(userID uint) error {
	var user models.User
	if err := s.db.Select("id", "level").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	for _, id := range levelAchievementIDs(user.Level) {
		if _, err := s.CheckAndAward(userID, id); err != nil {
			return err
		}
	}
	return nil
}
