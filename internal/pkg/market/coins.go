package market

import "strings"

// 展示用代码到 CoinGecko 币种 ID 的映射
var coinIDs = map[string]string{
	"BITCOIN":     "bitcoin",
	"ETHEREUM":    "ethereum",
	"BINANCECOIN": "binancecoin",
	"CARDANO":     "cardano",
	"SOLANA":      "solana",
	"POLKADOT":    "polkadot",
	"DOGECOIN":    "dogecoin",
	"AVALANCHE2":  "avalanche-2",
	"CHAINLINK":   "chainlink",
	"POLYGON":     "polygon",
}

// 时间周期对应的 K 线天数
var timeframeDays = map[string]int{
	"5m":  1,
	"15m": 1,
	"1h":  7,
	"4h":  30,
	"1d":  365,
}

const defaultChartDays = 7

// CoinID 未知代码直接转小写作为 ID
func CoinID(symbol string) string {
	if id, ok := coinIDs[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Symbol 去掉连字符并转大写，例如 avalanche-2 -> AVALANCHE2
func Symbol(coinID string) string {
	return strings.ToUpper(strings.ReplaceAll(coinID, "-", ""))
}

func DaysForTimeframe(timeframe string) int {
	if days, ok := timeframeDays[timeframe]; ok {
		return days
	}
	return defaultChartDays
}

// AbsoluteChange 由当前价格和 24 小时涨跌幅反推涨跌额
func AbsoluteChange(price, changePct float64) float64 {
	if changePct <= -100 {
		return 0
	}
	return price - price/(1+changePct/100)
}
