package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/model"
)

// TestUser 创建测试用户，默认 5 次免费预测
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	id := uuid.NewString()
	user := &model.User{
		ID:              id,
		Email:           fmt.Sprintf("test_%s@example.com", id[:8]),
		Name:            "Test User",
		Picture:         "https://example.com/avatar.png",
		FreePredictions: 5,
		ReferralCode:    strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8]),
		CreatedAt:       time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithID 设置用户 ID
func WithID(id string) func(*model.User) {
	return func(u *model.User) {
		u.ID = id
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithFreePredictions 设置剩余免费预测次数
func WithFreePredictions(n int) func(*model.User) {
	return func(u *model.User) {
		u.FreePredictions = n
	}
}

// WithReferralCode 设置推荐码
func WithReferralCode(code string) func(*model.User) {
	return func(u *model.User) {
		u.ReferralCode = code
	}
}

// WithReferredBy 设置推荐人
func WithReferredBy(referrerID string) func(*model.User) {
	return func(u *model.User) {
		u.ReferredBy = &referrerID
	}
}

// WithLastBonusClaim 设置上次领取每日奖励的时间
func WithLastBonusClaim(at time.Time) func(*model.User) {
	return func(u *model.User) {
		at = at.UTC()
		u.LastBonusClaim = &at
	}
}

// TestSession 创建测试会话
func TestSession(t *testing.T, db *gorm.DB, userID string, expiresAt time.Time) *model.Session {
	t.Helper()

	session := &model.Session{
		SessionToken: "tok_" + uuid.NewString(),
		UserID:       userID,
		ExpiresAt:    expiresAt.UTC(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return session
}

// TestPrediction 创建测试预测
func TestPrediction(t *testing.T, db *gorm.DB, userID string, createdAt time.Time) *model.Prediction {
	t.Helper()

	prediction := &model.Prediction{
		ID:             uuid.NewString(),
		UserID:         userID,
		Symbol:         "BITCOIN",
		PredictionType: model.PredictionBullish,
		Timeframe:      "1h",
		Confidence:     model.PlaceholderConfidence,
		EntryPrice:     45230.50,
		TargetPrice:    47000,
		StopLoss:       44000,
		CreatedAt:      createdAt.UTC(),
		IsFree:         true,
	}

	if err := db.Create(prediction).Error; err != nil {
		t.Fatalf("Failed to create test prediction: %v", err)
	}

	return prediction
}
