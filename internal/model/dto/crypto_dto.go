package dto

import "time"

// CryptoPrice 行情列表中的单个币种
type CryptoPrice struct {
	Symbol                   string    `json:"symbol"`
	CurrentPrice             float64   `json:"current_price"`
	PriceChange24h           float64   `json:"price_change_24h"`
	PriceChangePercentage24h float64   `json:"price_change_percentage_24h"`
	Volume24h                float64   `json:"volume_24h"`
	MarketCap                float64   `json:"market_cap"`
	LastUpdated              time.Time `json:"last_updated"`
}

// ChartData K 线数据，每个点是 [毫秒时间戳, 数值]
type ChartData struct {
	Prices     [][2]float64 `json:"prices"`
	Volumes    [][2]float64 `json:"volumes"`
	MarketCaps [][2]float64 `json:"market_caps"`
}
