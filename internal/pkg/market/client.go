package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const apiKeyHeader = "x-cg-demo-api-key"

var ErrNoPrice = errors.New("no price for coin")

// Quote simple/price 接口中单个币种的报价
type Quote struct {
	Price     float64
	Change24h float64 // 24 小时涨跌幅（百分比）
	Volume24h float64
	MarketCap float64
}

// Chart market_chart 接口返回的时间序列，每个点为 [毫秒时间戳, 数值]
type Chart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
	MarketCaps   [][2]float64 `json:"market_caps"`
}

// Client CoinGecko 兼容的行情客户端
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	u := c.BaseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("api error: %s (status: %d)", string(body), resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SimplePrices 批量获取报价，结果按币种 ID 索引
func (c *Client) SimplePrices(ctx context.Context, coinIDs []string, currency string) (map[string]Quote, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(coinIDs, ","))
	query.Set("vs_currencies", currency)
	query.Set("include_24hr_change", "true")
	query.Set("include_24hr_vol", "true")
	query.Set("include_market_cap", "true")

	var raw map[string]map[string]float64
	if err := c.get(ctx, "/simple/price", query, &raw); err != nil {
		return nil, err
	}

	quotes := make(map[string]Quote, len(raw))
	for id, fields := range raw {
		quotes[id] = Quote{
			Price:     fields[currency],
			Change24h: fields[currency+"_24h_change"],
			Volume24h: fields[currency+"_24h_vol"],
			MarketCap: fields[currency+"_market_cap"],
		}
	}
	return quotes, nil
}

// Price 获取单个币种的当前价格
func (c *Client) Price(ctx context.Context, coinID, currency string) (float64, error) {
	query := url.Values{}
	query.Set("ids", coinID)
	query.Set("vs_currencies", currency)

	var raw map[string]map[string]float64
	if err := c.get(ctx, "/simple/price", query, &raw); err != nil {
		return 0, err
	}

	price, ok := raw[coinID][currency]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoPrice, coinID)
	}
	return price, nil
}

// MarketChart 获取最近 days 天的价格、成交量、市值序列
func (c *Client) MarketChart(ctx context.Context, coinID, currency string, days int) (*Chart, error) {
	query := url.Values{}
	query.Set("vs_currency", currency)
	query.Set("days", strconv.Itoa(days))

	var chart Chart
	endpoint := "/coins/" + url.PathEscape(coinID) + "/market_chart"
	if err := c.get(ctx, endpoint, query, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}
