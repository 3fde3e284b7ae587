// services/daily_mission.go - Daily Mission Tracker
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"battlepost/models"

	"gorm.io/gorm"
)

type MissionType string

const (
	MissionPost    MissionType = "post"
	MissionDraw    MissionType = "draw"
	MissionComment MissionType = "comment"
)

const (
	missionPostXP    = 50
	missionDrawXP    = 80
	missionCommentXP = 30
	missionBonusXP   = 100

	// The comment sub-mission completes when the daily count first
	// reaches this value.
	missionCommentTarget = 3
)

var (
	// ErrMissionAlreadyCompleted is expected and non-fatal: the caller
	// reports a no-op instead of failing the surrounding request.
	ErrMissionAlreadyCompleted = errors.New("mission already completed")

	ErrInvalidMissionType = errors.New("invalid mission type")
)

// Day boundaries are computed in the app's reference timezone (UTC+9),
// regardless of server locale.
var kst = time.FixedZone("KST", 9*60*60)

// MissionService owns the per-user-per-day mission rows. All flag
// transitions and their XP grants for one call are applied in a single
// transaction.
type MissionService struct {
	db            *gorm.DB
	achievements  *AchievementService
	notifications *NotificationService

	// now is swappable for tests.
	now func() time.Time
}

func NewMissionService(db *gorm.DB, achievements *AchievementService, notifications *NotificationService) *MissionService {
	return &MissionService{
		db:            db,
		achievements:  achievements,
		notifications: notifications,
		now:           time.Now,
	}
}

// Today returns the current KST calendar day truncated to midnight.
func (s *MissionService) Today() time.Time {
	now := s.now().In(kst)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, kst)
}

// GetToday returns today's mission row, creating it on first access with
// all flags false.
func (s *MissionService) GetToday(userID uint) (*models.DailyMission, error) {
	var mission models.DailyMission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := s.loadOrCreate(tx, userID, s.Today())
		if err != nil {
			return err
		}
		mission = *m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

func (s *MissionService) loadOrCreate(tx *gorm.DB, userID uint, day time.Time) (*models.DailyMission, error) {
	mission := models.DailyMission{UserID: userID, Date: day}
	err := tx.Where("user_id = ? AND date = ?", userID, day).FirstOrCreate(&mission).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the creation race; the row exists now.
		err = tx.Where("user_id = ? AND date = ?", userID, day).First(&mission).Error
	}
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

type ProgressResult struct {
	Mission        *models.DailyMission `json:"mission"`
	XPGained       int                  `json:"xp_gained"`
	Ledger         *LedgerResult        `json:"ledger,omitempty"`
	BonusCompleted bool                 `json:"bonus_completed"`
}

// RecordProgress advances one sub-mission for today. Post and draw latch
// immediately; comment latches when the daily count first reaches 3.
// When the third sub-mission latches, the completion bonus latches in
// the same transaction. Every latch is a conditional update guarded by
// the flag's current value: under concurrent calls the database
// re-evaluates the guard against the committed row, so exactly one
// caller claims each transition and its XP.
func (s *MissionService) RecordProgress(userID uint, missionType MissionType) (*ProgressResult, error) {
	today := s.Today()

	var result *ProgressResult
	var pending []*models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		mission, err := s.loadOrCreate(tx, userID, today)
		if err != nil {
			return err
		}

		xpToAdd := 0
		transitioned := false

		switch missionType {
		case MissionPost:
			latched, err := latchFlag(tx, mission.ID, "post_completed")
			if err != nil {
				return err
			}
			if !latched {
				return ErrMissionAlreadyCompleted
			}
			transitioned = true
			xpToAdd = missionPostXP
			n, err := s.notifications.createTx(tx, userID, models.NotificationDailyMission,
				"Writing mission complete!",
				fmt.Sprintf("You finished today's writing mission and earned %d XP!", missionPostXP),
				"/daily-mission")
			if err != nil {
				return err
			}
			pending = append(pending, n)

		case MissionDraw:
			latched, err := latchFlag(tx, mission.ID, "draw_completed")
			if err != nil {
				return err
			}
			if !latched {
				return ErrMissionAlreadyCompleted
			}
			transitioned = true
			xpToAdd = missionDrawXP
			n, err := s.notifications.createTx(tx, userID, models.NotificationDailyMission,
				"Drawing mission complete!",
				fmt.Sprintf("You finished today's drawing mission and earned %d XP!", missionDrawXP),
				"/daily-mission")
			if err != nil {
				return err
			}
			pending = append(pending, n)

		case MissionComment:
			res := tx.Model(&models.DailyMission{}).
				Where("id = ? AND comment_completed = ?", mission.ID, false).
				Update("comment_count", gorm.Expr("comment_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrMissionAlreadyCompleted
			}
			if err := tx.First(mission, mission.ID).Error; err != nil {
				return err
			}
			if mission.CommentCount >= missionCommentTarget {
				latched, err := latchFlag(tx, mission.ID, "comment_completed")
				if err != nil {
					return err
				}
				if latched {
					transitioned = true
					xpToAdd = missionCommentXP
					n, err := s.notifications.createTx(tx, userID, models.NotificationDailyMission,
						"Comment mission complete!",
						fmt.Sprintf("You finished today's comment mission and earned %d XP!", missionCommentXP),
						"/daily-mission")
					if err != nil {
						return err
					}
					pending = append(pending, n)
				}
			}

		default:
			return ErrInvalidMissionType
		}

		// Bonus check only after a sub-mission actually transitioned: all
		// three latched and the bonus guard still open.
		bonus := false
		if transitioned {
			if err := tx.First(mission, mission.ID).Error; err != nil {
				return err
			}
			if mission.PostCompleted && mission.DrawCompleted && mission.CommentCompleted {
				latched, err := latchFlag(tx, mission.ID, "bonus_completed")
				if err != nil {
					return err
				}
				if latched {
					bonus = true
					xpToAdd += missionBonusXP
					n, err := s.notifications.createTx(tx, userID, models.NotificationDailyMission,
						"All daily missions complete!",
						fmt.Sprintf("Congratulations! You finished every mission today and earned a %d XP bonus!", missionBonusXP),
						"/daily-mission")
					if err != nil {
						return err
					}
					pending = append(pending, n)
				}
			}
		}

		if err := tx.First(mission, mission.ID).Error; err != nil {
			return err
		}

		var ledger *LedgerResult
		if xpToAdd > 0 {
			ledger, err = grantXPTx(tx, userID, xpToAdd)
			if err != nil {
				return err
			}
			if ledger.LeveledUp {
				n, err := s.notifications.createTx(tx, userID, models.NotificationLevelUp,
					"Level up!",
					fmt.Sprintf("Congratulations! You went from level %d to level %d!", ledger.PreviousLevel, ledger.NewLevel),
					"/profile")
				if err != nil {
					return err
				}
				pending = append(pending, n)

				passed, err := s.achievements.levelPassTx(tx, userID, ledger.NewLevel)
				if err != nil {
					return err
				}
				pending = append(pending, passed...)
			}
		}

		result = &ProgressResult{
			Mission:        mission,
			XPGained:       xpToAdd,
			Ledger:         ledger,
			BonusCompleted: bonus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.publishAll(pending)

	// Streak and first-completion checks read committed mission rows, so
	// they run only after the transaction above is durable. Failures
	// here are best effort relative to the recorded progress.
	if result.BonusCompleted {
		if err := s.achievements.CheckDailyMissionAchievements(userID); err != nil {
			log.Printf("daily mission achievement check failed: user=%d: %v", userID, err)
		}
	}

	return result, nil
}

// latchFlag flips a boolean mission column to true only while it is
// still false and reports whether this call made the transition. A
// concurrent transaction that held the row lock first leaves the guard
// closed, so the loser sees zero affected rows instead of re-latching.
func latchFlag(tx *gorm.DB, missionID uint, column string) (bool, error) {
	res := tx.Model(&models.DailyMission{}).
		Where("id = ? AND "+column+" = ?", missionID, false).
		Update(column, true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
