package dto

// CreatePredictionRequest 提交预测请求
type CreatePredictionRequest struct {
	Symbol         string  `json:"symbol" binding:"required,max=32"`
	PredictionType string  `json:"prediction_type" binding:"required,oneof=bullish bearish"`
	Timeframe      string  `json:"timeframe" binding:"required,oneof=5m 15m 1h 4h 1d"`
	TargetPrice    float64 `json:"target_price" binding:"required,gt=0"`
	StopLoss       float64 `json:"stop_loss" binding:"required,gt=0"`
}
