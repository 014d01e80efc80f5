package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/market"
)

func newMarketService(t *testing.T, handler http.HandlerFunc) *MarketService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewMarketService(market.NewClient(server.URL, ""), testConfig(), logging.Nop())
}

func TestMarketService_Prices(t *testing.T) {
	service := newMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin,ethereum,avalanche-2", r.URL.Query().Get("ids"))
		w.Write([]byte(`{
			"ethereum": {"usd": 3000, "usd_24h_change": -2, "usd_24h_vol": 10, "usd_market_cap": 20},
			"avalanche-2": {"usd": 35},
			"bitcoin": {"usd": 50000, "usd_24h_change": 25}
		}`))
	})

	prices := service.Prices(context.Background(), "")
	require.Len(t, prices, 3)

	// 顺序与配置一致
	assert.Equal(t, "BITCOIN", prices[0].Symbol)
	assert.Equal(t, "ETHEREUM", prices[1].Symbol)
	assert.Equal(t, "AVALANCHE2", prices[2].Symbol)

	assert.Equal(t, 50000.0, prices[0].CurrentPrice)
	assert.Equal(t, 25.0, prices[0].PriceChangePercentage24h)
	assert.InDelta(t, 10000.0, prices[0].PriceChange24h, 1e-6)
	assert.False(t, prices[0].LastUpdated.IsZero())
}

func TestMarketService_Prices_Fallback(t *testing.T) {
	service := newMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	prices := service.Prices(context.Background(), "usd")
	require.Len(t, prices, 5)
	assert.Equal(t, "BITCOIN", prices[0].Symbol)
	assert.Equal(t, 45230.50, prices[0].CurrentPrice)
	assert.Equal(t, 1250.30, prices[0].PriceChange24h)
}

func TestMarketService_Currency(t *testing.T) {
	service := newMarketService(t, func(w http.ResponseWriter, r *http.Request) {})

	assert.Equal(t, "eur", service.Currency("EUR"))
	assert.Equal(t, "usd", service.Currency(""))
	assert.Equal(t, "usd", service.Currency("us-dollar"))
}

func TestMarketService_Chart(t *testing.T) {
	service := newMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/avalanche-2/market_chart", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		assert.Equal(t, "eur", r.URL.Query().Get("vs_currency"))
		w.Write([]byte(`{"prices": [[1, 2]], "total_volumes": [[1, 3]]}`))
	})

	chart := service.Chart(context.Background(), "AVALANCHE2", "4h", "eur")
	assert.Equal(t, [][2]float64{{1, 2}}, chart.Prices)
	assert.Equal(t, [][2]float64{{1, 3}}, chart.Volumes)
	assert.NotNil(t, chart.MarketCaps)
	assert.Empty(t, chart.MarketCaps)
}

func TestMarketService_Chart_Fallback(t *testing.T) {
	service := newMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	chart := service.Chart(context.Background(), "BITCOIN", "1h", "")
	assert.Len(t, chart.Prices, 3)
	assert.Equal(t, 45230.50, chart.Prices[0][1])
}

func TestMarketService_LookupPrice(t *testing.T) {
	service := newMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "binancecoin", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"binancecoin": {"usd": 320.5}}`))
	})

	price, err := service.LookupPrice(context.Background(), "binancecoin")
	require.NoError(t, err)
	assert.Equal(t, 320.5, price)
}

func TestMarketService_LookupPrice_Error(t *testing.T) {
	service := newMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := service.LookupPrice(context.Background(), "BITCOIN")
	assert.Error(t, err)
}
