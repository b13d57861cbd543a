package binance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

// Client is a pass-through client for the public Binance REST API. Browsers
// cannot call Binance directly, so the backend forwards requests verbatim
// and relays the raw JSON body. Only public market-data endpoints are
// reachable; no API key is involved.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// Config represents Binance client configuration
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit int
}

// NewClient creates a new Binance client
func NewClient(config *Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.binance.com/api/v3/"
	}

	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	if config.RateLimit == 0 {
		config.RateLimit = 1200 // requests per minute
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RateLimit)), 10)

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/") + "/",
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: limiter,
	}
}

// Proxy forwards a GET request for the given endpoint and query parameters
// and returns the upstream status code and raw body.
func (c *Client) Proxy(ctx context.Context, endpoint string, params url.Values) (int, []byte, error) {
	if !c.rateLimiter.Allow() {
		return 0, nil, apperrors.NewTooManyRequestsError("Binance rate limit exceeded")
	}

	target := c.baseURL + strings.TrimPrefix(endpoint, "/")
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperrors.ErrMarketDataUpstream
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, apperrors.ErrMarketDataUpstream
	}

	return resp.StatusCode, body, nil
}
