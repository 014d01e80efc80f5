package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/market"
)

var currencyPattern = regexp.MustCompile(`^[a-z]{3,5}$`)

// MarketService 行情透传，上游失败时返回静态数据
type MarketService struct {
	client *market.Client
	cfg    *config.Config
	logger logging.Logger
}

func NewMarketService(client *market.Client, cfg *config.Config, logger logging.Logger) *MarketService {
	return &MarketService{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "market"),
	}
}

// Currency 非法或为空时使用默认币种
func (s *MarketService) Currency(currency string) string {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if !currencyPattern.MatchString(currency) {
		return s.cfg.Market.DefaultCurrency
	}
	return currency
}

// Prices 热门币种行情列表
func (s *MarketService) Prices(ctx context.Context, currency string) []*dto.CryptoPrice {
	currency = s.Currency(currency)
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Market.Timeout())
	defer cancel()

	quotes, err := s.client.SimplePrices(ctx, s.cfg.Market.Coins, currency)
	if err != nil {
		s.logger.Warn(ctx, "price listing unavailable, using fallback", "err", err)
		return tickersToDTO(market.FallbackTickers(), now)
	}

	// 按配置的顺序输出
	tickers := make([]market.Ticker, 0, len(quotes))
	for _, id := range s.cfg.Market.Coins {
		q, ok := quotes[id]
		if !ok {
			continue
		}
		tickers = append(tickers, market.Ticker{
			Symbol:    market.Symbol(id),
			Price:     q.Price,
			Change24h: market.AbsoluteChange(q.Price, q.Change24h),
			ChangePct: q.Change24h,
			Volume24h: q.Volume24h,
			MarketCap: q.MarketCap,
		})
	}
	return tickersToDTO(tickers, now)
}

// Chart 单个币种的 K 线
func (s *MarketService) Chart(ctx context.Context, symbol, timeframe, currency string) *dto.ChartData {
	currency = s.Currency(currency)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Market.Timeout())
	defer cancel()

	chart, err := s.client.MarketChart(ctx, market.CoinID(symbol), currency, market.DaysForTimeframe(timeframe))
	if err != nil {
		s.logger.Warn(ctx, "chart unavailable, using fallback", "symbol", symbol, "err", err)
		chart = market.FallbackChart()
	}

	return &dto.ChartData{
		Prices:     nonNil(chart.Prices),
		Volumes:    nonNil(chart.TotalVolumes),
		MarketCaps: nonNil(chart.MarketCaps),
	}
}

// LookupPrice 只返回上游结果，兜底由调用方决定
func (s *MarketService) LookupPrice(ctx context.Context, symbol string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Market.LookupTimeout())
	defer cancel()

	return s.client.Price(ctx, market.CoinID(symbol), s.cfg.Market.DefaultCurrency)
}

func tickersToDTO(tickers []market.Ticker, now time.Time) []*dto.CryptoPrice {
	out := make([]*dto.CryptoPrice, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, &dto.CryptoPrice{
			Symbol:                   t.Symbol,
			CurrentPrice:             t.Price,
			PriceChange24h:           t.Change24h,
			PriceChangePercentage24h: t.ChangePct,
			Volume24h:                t.Volume24h,
			MarketCap:                t.MarketCap,
			LastUpdated:              now,
		})
	}
	return out
}

func nonNil(points [][2]float64) [][2]float64 {
	if points == nil {
		return [][2]float64{}
	}
	return points
}
