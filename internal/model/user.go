package model

import (
	"time"
)

type User struct {
	ID                   string     `gorm:"primaryKey;size:64" json:"id"`
	Email                string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name                 string     `gorm:"size:255" json:"name"`
	Picture              string     `gorm:"size:500" json:"picture"`
	FreePredictions      int        `gorm:"not null" json:"free_predictions"`
	TotalPredictionsUsed int        `gorm:"not null" json:"total_predictions_used"`
	ReferralCode         string     `gorm:"size:16;uniqueIndex;not null" json:"referral_code"`
	ReferredBy           *string    `gorm:"size:64;index" json:"referred_by"`
	ReferralCount        int        `gorm:"not null" json:"referral_count"`
	ReferralEarnings     int        `gorm:"not null" json:"referral_earnings"`
	CreatedAt            time.Time  `json:"created_at"`
	LastBonusClaim       *time.Time `json:"last_bonus_claim"`
}

func (User) TableName() string {
	return "users"
}
