// services/evaluation_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"battlepost/models"

	"gorm.io/gorm"
)

// fakeOracle returns canned scores per bot and fails for bots listed in
// broken.
type fakeOracle struct {
	scores map[string]int
	broken map[string]bool
}

func (o *fakeOracle) EvaluateDrawing(ctx context.Context, botID, imageData, description string) (int, string, error) {
	if o.broken[botID] {
		return 0, "", errors.New("bot unavailable")
	}
	return o.scores[botID], "nice work", nil
}

func (o *fakeOracle) GenerateComment(ctx context.Context, botID, postContent string) (string, error) {
	if o.broken[botID] {
		return "", errors.New("bot unavailable")
	}
	return "comment from " + botID, nil
}

func (o *fakeOracle) GenerateReply(ctx context.Context, botID, userComment, postContent string) (string, error) {
	if o.broken[botID] {
		return "", errors.New("bot unavailable")
	}
	return "reply from " + botID, nil
}

func seedBots(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		bot := models.AIBot{ID: id, Name: id}
		if err := db.Create(&bot).Error; err != nil {
			t.Fatalf("failed to seed bot %s: %v", id, err)
		}
	}
}

func newEvaluationFixture(t *testing.T, oracle Oracle) (*gorm.DB, *EvaluationService) {
	t.Helper()

	db := newTestDB(t)
	pub := &recordingPublisher{}
	notifications := NewNotificationService(db, pub)
	achievements := NewAchievementService(db, notifications)
	return db, NewEvaluationService(db, oracle, achievements, notifications)
}

func TestSubmitDrawingEvaluatesAndAggregates(t *testing.T) {
	oracle := &fakeOracle{scores: map[string]int{"ceo": 80, "joker": 85, "ai-egg": 92}}
	db, evaluations := newEvaluationFixture(t, oracle)
	seedBots(t, db, "ceo", "joker", "ai-egg")
	user := createTestUser(t, db, 0)

	drawing, err := evaluations.SubmitDrawing(context.Background(), user.ID, "data:image/png;base64,xxx", "a cat")
	if err != nil {
		t.Fatalf("SubmitDrawing failed: %v", err)
	}

	var stored models.Drawing
	if err := db.First(&stored, drawing.ID).Error; err != nil {
		t.Fatalf("failed to reload drawing: %v", err)
	}
	if stored.Status != models.DrawingStatusEvaluated {
		t.Errorf("status = %s, want %s", stored.Status, models.DrawingStatusEvaluated)
	}
	// (80+85+92)/3 = 85.666..., rounded to one decimal.
	if stored.AverageScore != 85.7 {
		t.Errorf("average score = %v, want 85.7", stored.AverageScore)
	}

	var evalCount int64
	db.Model(&models.AIEvaluation{}).Where("drawing_id = ?", drawing.ID).Count(&evalCount)
	if evalCount != 3 {
		t.Errorf("evaluation rows = %d, want 3", evalCount)
	}

	if got := countNotifications(t, db, user.ID, models.NotificationAIEvaluation); got != 1 {
		t.Errorf("evaluation notifications = %d, want 1", got)
	}
	if !hasAchievement(t, db, user.ID, "first-drawing") {
		t.Error("expected first-drawing for the first submission")
	}
}

func TestSubmitDrawingSkipsFailedBots(t *testing.T) {
	oracle := &fakeOracle{
		scores: map[string]int{"ceo": 80, "joker": 90},
		broken: map[string]bool{"joker": true},
	}
	db, evaluations := newEvaluationFixture(t, oracle)
	seedBots(t, db, "ceo", "joker")
	user := createTestUser(t, db, 0)

	drawing, err := evaluations.SubmitDrawing(context.Background(), user.ID, "data:image/png;base64,xxx", "")
	if err != nil {
		t.Fatalf("SubmitDrawing failed: %v", err)
	}

	var stored models.Drawing
	if err := db.First(&stored, drawing.ID).Error; err != nil {
		t.Fatalf("failed to reload drawing: %v", err)
	}
	// The surviving bot alone defines the average.
	if stored.AverageScore != 80 {
		t.Errorf("average score = %v, want 80", stored.AverageScore)
	}

	var evalCount int64
	db.Model(&models.AIEvaluation{}).Where("drawing_id = ?", drawing.ID).Count(&evalCount)
	if evalCount != 1 {
		t.Errorf("evaluation rows = %d, want 1", evalCount)
	}
}

func TestSubmitDrawingWithoutOracleStaysPending(t *testing.T) {
	db, evaluations := newEvaluationFixture(t, nil)
	seedBots(t, db, "ceo")
	user := createTestUser(t, db, 0)

	drawing, err := evaluations.SubmitDrawing(context.Background(), user.ID, "data:image/png;base64,xxx", "")
	if err != nil {
		t.Fatalf("SubmitDrawing failed: %v", err)
	}

	var stored models.Drawing
	if err := db.First(&stored, drawing.ID).Error; err != nil {
		t.Fatalf("failed to reload drawing: %v", err)
	}
	if stored.Status != models.DrawingStatusPending {
		t.Errorf("status = %s, want %s", stored.Status, models.DrawingStatusPending)
	}
}

func TestSubmitDrawingUserNotFound(t *testing.T) {
	_, evaluations := newEvaluationFixture(t, nil)

	if _, err := evaluations.SubmitDrawing(context.Background(), 9999, "data", ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("SubmitDrawing error = %v, want ErrUserNotFound", err)
	}
}

func TestCommentOnPost(t *testing.T) {
	oracle := &fakeOracle{}
	db, evaluations := newEvaluationFixture(t, oracle)
	seedBots(t, db, "ceo", "joker")
	user := createTestUser(t, db, 0)

	post := models.Post{Content: "hello", AuthorID: user.ID, AllowAI: true}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	if err := evaluations.CommentOnPost(context.Background(), &post); err != nil {
		t.Fatalf("CommentOnPost failed: %v", err)
	}

	var comments []models.Comment
	if err := db.Where("post_id = ?", post.ID).Find(&comments).Error; err != nil {
		t.Fatalf("failed to load comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("comments = %d, want 2 (one per bot)", len(comments))
	}
	for _, c := range comments {
		if !c.IsAI {
			t.Error("bot comments must be flagged as AI")
		}
		if c.AuthorID != nil {
			t.Error("bot comments must have no user author")
		}
		if c.AIType == "" {
			t.Error("bot comments must carry the bot id")
		}
	}

	// A second run sees existing bot comments and writes nothing.
	if err := evaluations.CommentOnPost(context.Background(), &post); err != nil {
		t.Fatalf("second CommentOnPost failed: %v", err)
	}
	var count int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 2 {
		t.Errorf("comments after second run = %d, want 2", count)
	}
}

func TestCommentOnPostSkipsPrivateAndOptedOut(t *testing.T) {
	oracle := &fakeOracle{}
	db, evaluations := newEvaluationFixture(t, oracle)
	seedBots(t, db, "ceo")
	user := createTestUser(t, db, 0)

	private := models.Post{Content: "secret", AuthorID: user.ID, IsPrivate: true, AllowAI: true}
	optedOut := models.Post{Content: "no bots", AuthorID: user.ID, AllowAI: false}
	for _, p := range []*models.Post{&private, &optedOut} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("failed to create post: %v", err)
		}
		if err := evaluations.CommentOnPost(context.Background(), p); err != nil {
			t.Fatalf("CommentOnPost failed: %v", err)
		}
	}

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("comments = %d, want 0", count)
	}
}

func TestReplyToComment(t *testing.T) {
	oracle := &fakeOracle{}
	db, evaluations := newEvaluationFixture(t, oracle)
	user := createTestUser(t, db, 0)

	post := models.Post{Content: "hello", AuthorID: user.ID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	botComment := models.Comment{Content: "beep", PostID: post.ID, IsAI: true, AIType: "joker"}
	if err := db.Create(&botComment).Error; err != nil {
		t.Fatalf("failed to create bot comment: %v", err)
	}
	userReply := models.Comment{Content: "why?", PostID: post.ID, AuthorID: &user.ID, ParentID: &botComment.ID}
	if err := db.Create(&userReply).Error; err != nil {
		t.Fatalf("failed to create user reply: %v", err)
	}

	reply, err := evaluations.ReplyToComment(context.Background(), &botComment, &userReply, post.Content)
	if err != nil {
		t.Fatalf("ReplyToComment failed: %v", err)
	}
	if reply == nil {
		t.Fatal("expected a reply")
	}
	if !reply.IsAI || reply.AIType != "joker" {
		t.Errorf("reply persona = isAI %v type %q, want the parent bot", reply.IsAI, reply.AIType)
	}
	if reply.ParentID == nil || *reply.ParentID != userReply.ID {
		t.Error("reply must be threaded under the user's comment")
	}

	// Replying under a human comment is a no-op.
	humanParent := models.Comment{Content: "hi", PostID: post.ID, AuthorID: &user.ID}
	if err := db.Create(&humanParent).Error; err != nil {
		t.Fatalf("failed to create human comment: %v", err)
	}
	noReply, err := evaluations.ReplyToComment(context.Background(), &humanParent, &userReply, post.Content)
	if err != nil {
		t.Fatalf("ReplyToComment under human comment failed: %v", err)
	}
	if noReply != nil {
		t.Error("did not expect a reply under a human comment")
	}
}
