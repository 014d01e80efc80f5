package market

import "strings"

// DefaultPrice 未知币种的兜底价格
const DefaultPrice = 45230.50

// Ticker 行情列表中的一项
type Ticker struct {
	Symbol    string
	Price     float64
	Change24h float64
	ChangePct float64
	Volume24h float64
	MarketCap float64
}

var fallbackTickers = []Ticker{
	{Symbol: "BITCOIN", Price: 45230.50, Change24h: 1250.30, ChangePct: 2.85, Volume24h: 15420000000, MarketCap: 890000000000},
	{Symbol: "ETHEREUM", Price: 2845.75, Change24h: -85.25, ChangePct: -2.91, Volume24h: 8230000000, MarketCap: 342000000000},
	{Symbol: "BINANCECOIN", Price: 312.40, Change24h: 12.80, ChangePct: 4.27, Volume24h: 1250000000, MarketCap: 46800000000},
	{Symbol: "CARDANO", Price: 0.485, Change24h: 0.028, ChangePct: 6.13, Volume24h: 420000000, MarketCap: 17200000000},
	{Symbol: "SOLANA", Price: 98.75, Change24h: -3.45, ChangePct: -3.38, Volume24h: 1850000000, MarketCap: 45600000000},
}

// FallbackTickers 行情接口不可用时返回的静态列表
func FallbackTickers() []Ticker {
	out := make([]Ticker, len(fallbackTickers))
	copy(out, fallbackTickers)
	return out
}

// FallbackChart K 线接口不可用时返回的静态序列
func FallbackChart() *Chart {
	return &Chart{
		Prices:       [][2]float64{{1705276800000, 45230.50}, {1705280400000, 45485.20}, {1705284000000, 45120.80}},
		TotalVolumes: [][2]float64{{1705276800000, 1542000000}, {1705280400000, 1623000000}, {1705284000000, 1456000000}},
		MarketCaps:   [][2]float64{{1705276800000, 890000000000}, {1705280400000, 892500000000}, {1705284000000, 888700000000}},
	}
}

// FallbackPrice 按代码查静态价格，未知代码返回 DefaultPrice
func FallbackPrice(symbol string) float64 {
	upper := strings.ToUpper(symbol)
	for _, t := range fallbackTickers {
		if t.Symbol == upper {
			return t.Price
		}
	}
	return DefaultPrice
}
