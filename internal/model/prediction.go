package model

import (
	"time"
)

const (
	PredictionBullish = "bullish"
	PredictionBearish = "bearish"
)

// 目前没有付费预测，置信度也是固定占位值
const PlaceholderConfidence = 75.5

var Timeframes = []string{"5m", "15m", "1h", "4h", "1d"}

type Prediction struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	UserID         string    `gorm:"size:64;not null;index:idx_predictions_user_created,priority:1" json:"user_id"`
	Symbol         string    `gorm:"size:32;not null" json:"symbol"`
	PredictionType string    `gorm:"size:16;not null" json:"prediction_type"` // bullish, bearish
	Timeframe      string    `gorm:"size:8;not null" json:"timeframe"`        // 5m, 15m, 1h, 4h, 1d
	Confidence     float64   `json:"confidence"`
	EntryPrice     float64   `json:"entry_price"`
	TargetPrice    float64   `json:"target_price"`
	StopLoss       float64   `json:"stop_loss"`
	CreatedAt      time.Time `gorm:"index:idx_predictions_user_created,priority:2" json:"created_at"`
	IsFree         bool      `json:"is_free"`
}

func (Prediction) TableName() string {
	return "predictions"
}
