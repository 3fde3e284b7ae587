// services/notify_test.go
package services

import (
	"errors"
	"testing"

	"battlepost/models"
)

type failingPublisher struct{}

func (failingPublisher) Publish(userID uint, payload interface{}) error {
	return errors.New("connection gone")
}

func TestNotifyPersistsAndPublishes(t *testing.T) {
	db := newTestDB(t)
	pub := &recordingPublisher{}
	notifications := NewNotificationService(db, pub)
	user := createTestUser(t, db, 0)

	n, err := notifications.Notify(user.ID, models.NotificationComment, "New comment", "Someone replied", "/posts/1")
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n.ID == 0 {
		t.Error("expected persisted notification to have an id")
	}
	if n.IsRead {
		t.Error("new notifications must start unread")
	}

	events := pub.published()
	if len(events) != 1 {
		t.Fatalf("published events = %d, want 1", len(events))
	}
	if events[0].ID != n.ID {
		t.Errorf("published notification id = %d, want %d", events[0].ID, n.ID)
	}
}

func TestNotifySurvivesPublishFailure(t *testing.T) {
	db := newTestDB(t)
	notifications := NewNotificationService(db, failingPublisher{})
	user := createTestUser(t, db, 0)

	if _, err := notifications.Notify(user.ID, models.NotificationComment, "New comment", "Someone replied", "/posts/1"); err != nil {
		t.Fatalf("Notify must not fail on publish errors: %v", err)
	}

	if got := countNotifications(t, db, user.ID, models.NotificationComment); got != 1 {
		t.Errorf("persisted notifications = %d, want 1", got)
	}
}

func TestNotifyWithoutPublisher(t *testing.T) {
	db := newTestDB(t)
	notifications := NewNotificationService(db, nil)
	user := createTestUser(t, db, 0)

	if _, err := notifications.Notify(user.ID, models.NotificationComment, "New comment", "Someone replied", "/posts/1"); err != nil {
		t.Fatalf("Notify must work without a publisher: %v", err)
	}
}
