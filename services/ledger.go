// services/ledger.go - XP/Level Ledger
package services

import (
	"errors"

	"battlepost/models"

	"gorm.io/gorm"
)

const xpPerLevel = 200

var (
	// ErrUserNotFound means XP was granted for a user that does not
	// exist; that is a caller bug and must propagate, never be retried.
	ErrUserNotFound = errors.New("user not found")

	ErrInvalidXPAmount = errors.New("xp amount must be positive")
)

// LevelForXP derives the level tier from an XP total.
func LevelForXP(xp int) int {
	return xp/xpPerLevel + 1
}

// XPForNextLevel returns how much XP is missing until the next tier.
func XPForNextLevel(xp int) int {
	return xpPerLevel - xp%xpPerLevel
}

type LedgerResult struct {
	XPGained      int  `json:"xp_gained"`
	NewXP         int  `json:"new_xp"`
	NewLevel      int  `json:"new_level"`
	PreviousLevel int  `json:"previous_level"`
	LeveledUp     bool `json:"leveled_up"`
}

// LedgerService owns the authoritative XP counter. It applies deltas
// atomically and recomputes the level in the same statement, but does
// not deduplicate grants or emit notifications; callers own both.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// GrantXP adds amount to the user's XP and recomputes the level.
func (s *LedgerService) GrantXP(userID uint, amount int) (*LedgerResult, error) {
	var result *LedgerResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := grantXPTx(tx, userID, amount)
		result = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// grantXPTx applies a grant inside the caller's transaction so award and
// mission flows stay atomic with their own writes. The update is
// delta-based: both SET expressions read the pre-update xp, so
// concurrent grants to the same user serialize on the row instead of
// losing increments.
func grantXPTx(tx *gorm.DB, userID uint, amount int) (*LedgerResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidXPAmount
	}

	var before models.User
	if err := tx.Select("id", "xp", "level").First(&before, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"xp":    gorm.Expr("xp + ?", amount),
		"level": gorm.Expr("(xp + ?) / ? + 1", amount, xpPerLevel),
	}).Error; err != nil {
		return nil, err
	}

	var after models.User
	if err := tx.Select("id", "xp", "level").First(&after, userID).Error; err != nil {
		return nil, err
	}

	return &LedgerResult{
		XPGained:      amount,
		NewXP:         after.XP,
		NewLevel:      after.Level,
		PreviousLevel: before.Level,
		LeveledUp:     after.Level > before.Level,
	}, nil
}
