package model

import (
	"time"
)

// Session 会话令牌是不透明的 bearer 凭证，创建后不再修改
type Session struct {
	SessionToken string    `gorm:"primaryKey;size:255" json:"session_token"`
	UserID       string    `gorm:"size:64;not null;index" json:"user_id"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// Expired 过期时间恰好等于 now 时也视为过期
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
