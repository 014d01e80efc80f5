package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SimplePrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,avalanche-2", r.URL.Query().Get("ids"))
		assert.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "true", r.URL.Query().Get("include_market_cap"))
		assert.Equal(t, "demo-key", r.Header.Get(apiKeyHeader))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bitcoin": {"eur": 41000.5, "eur_24h_change": 2.5, "eur_24h_vol": 1000, "eur_market_cap": 2000},
			"avalanche-2": {"eur": 30.1}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "demo-key")

	quotes, err := client.SimplePrices(context.Background(), []string{"bitcoin", "avalanche-2"}, "eur")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, Quote{Price: 41000.5, Change24h: 2.5, Volume24h: 1000, MarketCap: 2000}, quotes["bitcoin"])
	assert.Equal(t, 30.1, quotes["avalanche-2"].Price)
	assert.Zero(t, quotes["avalanche-2"].MarketCap)
}

func TestClient_Price(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(apiKeyHeader))
		if r.URL.Query().Get("ids") == "ethereum" {
			w.Write([]byte(`{"ethereum": {"usd": 2900.25}}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	price, err := client.Price(context.Background(), "ethereum", "usd")
	require.NoError(t, err)
	assert.Equal(t, 2900.25, price)

	_, err = client.Price(context.Background(), "unknowncoin", "usd")
	assert.ErrorIs(t, err, ErrNoPrice)
}

func TestClient_MarketChart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		w.Write([]byte(`{
			"prices": [[1705276800000, 45230.5], [1705280400000, 45485.2]],
			"total_volumes": [[1705276800000, 1542000000]],
			"market_caps": [[1705276800000, 890000000000]]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	chart, err := client.MarketChart(context.Background(), "bitcoin", "usd", 30)
	require.NoError(t, err)
	require.Len(t, chart.Prices, 2)
	assert.Equal(t, [2]float64{1705280400000, 45485.2}, chart.Prices[1])
	assert.Len(t, chart.TotalVolumes, 1)
	assert.Len(t, chart.MarketCaps, 1)
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":{"error_code":429}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	_, err := client.SimplePrices(context.Background(), []string{"bitcoin"}, "usd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Price(ctx, "bitcoin", "usd")
	assert.Error(t, err)
}
