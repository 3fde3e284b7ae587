// services/notify.go - Notification Emitter
package services

import (
	"log"
	"time"

	"battlepost/models"

	"gorm.io/gorm"
)

// Publisher pushes a payload to a user's realtime channel. Delivery is
// best effort; the durable notification row is the source of truth and
// clients can always fall back to polling the feed.
type Publisher interface {
	Publish(userID uint, payload interface{}) error
}

type NotificationService struct {
	db        *gorm.DB
	publisher Publisher
}

func NewNotificationService(db *gorm.DB, publisher Publisher) *NotificationService {
	return &NotificationService{db: db, publisher: publisher}
}

// Notify persists a notification and pushes it to the user's channel.
// A failed push never rolls back or fails the persisted record.
func (s *NotificationService) Notify(userID uint, typ models.NotificationType, title, content, link string) (*models.Notification, error) {
	n, err := s.createTx(s.db, userID, typ, title, content, link)
	if err != nil {
		return nil, err
	}
	s.publishOne(n)
	return n, nil
}

// createTx persists a notification inside the caller's transaction and
// returns it so the caller can publish after the transaction commits. A
// rolled-back transaction must not leak a realtime push for a row that
// never existed.
func (s *NotificationService) createTx(tx *gorm.DB, userID uint, typ models.NotificationType, title, content, link string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Content:   content,
		Link:      link,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) publishOne(n *models.Notification) {
	if s.publisher == nil || n == nil {
		return
	}
	if err := s.publisher.Publish(n.UserID, n); err != nil {
		log.Printf("notification publish failed: user=%d type=%s: %v", n.UserID, n.Type, err)
	}
}

// publishAll pushes committed notifications in creation order.
func (s *NotificationService) publishAll(ns []*models.Notification) {
	for _, n := range ns {
		s.publishOne(n)
	}
}
