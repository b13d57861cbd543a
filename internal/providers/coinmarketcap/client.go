package coinmarketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

const listingsEndpoint = "/v1/cryptocurrency/listings/latest?limit=5000"

// Client fetches cryptocurrency listings from the CoinMarketCap Pro API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config represents CoinMarketCap client configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// AssetInfo is the per-symbol summary exposed to the frontend.
type AssetInfo struct {
	Name      string          `json:"name"`
	MarketCap decimal.Decimal `json:"mcap"`
}

type listingsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
		Quote  map[string]struct {
			MarketCap float64 `json:"market_cap"`
		} `json:"quote"`
	} `json:"data"`
}

// NewClient creates a new CoinMarketCap client
func NewClient(config *Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://pro-api.coinmarketcap.com"
	}

	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Listings returns a mapping from symbol to name and market cap. When the
// same symbol appears more than once, the first (highest ranked) occurrence
// wins.
func (c *Client) Listings(ctx context.Context) (map[string]AssetInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listingsEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ErrMarketDataUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrMarketDataUpstream
	}

	var listings listingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, apperrors.ErrMarketDataUpstream
	}

	out := make(map[string]AssetInfo, len(listings.Data))
	for _, asset := range listings.Data {
		if _, exists := out[asset.Symbol]; exists {
			continue
		}
		out[asset.Symbol] = AssetInfo{
			Name:      asset.Name,
			MarketCap: decimal.NewFromFloat(asset.Quote["USD"].MarketCap),
		}
	}

	return out, nil
}
