package dto

// ReferralStats 推荐统计
type ReferralStats struct {
	ReferralCode     string `json:"referral_code"`
	ReferralCount    int    `json:"referral_count"`
	ReferralEarnings int    `json:"referral_earnings"`
}

// ReferralUseResponse 使用推荐码响应
type ReferralUseResponse struct {
	Message          string `json:"message"`
	BonusPredictions int    `json:"bonus_predictions"`
}

// BonusClaimResponse 每日奖励响应
type BonusClaimResponse struct {
	Message         string `json:"message"`
	FreePredictions int    `json:"free_predictions"`
}
