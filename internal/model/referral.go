package model

import (
	"time"
)

// Referral 推荐码兑换记录，每个被推荐人最多一条
type Referral struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	ReferrerID string    `gorm:"size:64;not null;index" json:"referrer_id"`
	RefereeID  string    `gorm:"size:64;not null;uniqueIndex" json:"referee_id"`
	Code       string    `gorm:"size:16;not null" json:"code"`
	Bonus      int       `gorm:"not null" json:"bonus"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
