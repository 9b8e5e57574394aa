package bybit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"resty.dev/v3"

	"marketboard/internal/fetcher"
	"marketboard/internal/ratelimit"
)

const tickersPath = "/v5/market/tickers"

// Single page is enough: the spot tickers endpoint returns every pair
// up to this limit.
const maxTickers = "1000"

// tickersResponse represents the Bybit v5 envelope for market tickers
type tickersResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category string              `json:"category"`
		List     []fetcher.RawTicker `json:"list"`
	} `json:"result"`
}

// Client fetches ticker snapshots from the Bybit v5 market API
type Client struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewClient creates a Bybit ticker fetcher. apiKey may be empty: the
// tickers endpoint is public and the key headers are only attached when
// one is configured, mirroring how the key is optional upstream.
func NewClient(apiKey, baseURL string, timeout time.Duration, limiter *ratelimit.Limiter) *Client {
	client := fetcher.NewHTTPClient(baseURL, timeout)

	if apiKey != "" {
		client.SetHeader("X-BAPI-API-KEY", apiKey).
			SetHeader("X-BAPI-SIGN-TYPE", "2").
			SetHeader("X-BAPI-RECV-WINDOW", "5000")
	}

	return &Client{
		apiKey:  apiKey,
		client:  client,
		limiter: limiter,
	}
}

// Fetch retrieves the raw ticker list for the given instrument category.
// Transport problems (network error, timeout, non-2xx status) and
// envelope-level failures (non-zero retCode) come back as *fetcher.Failure
// with the corresponding kind; the caller aborts the cycle on either.
func (c *Client) Fetch(ctx context.Context, category string) ([]fetcher.RawTicker, error) {
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fetcher.NewTransportFailure(err)
		}
	}

	var result tickersResponse

	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"category": category,
			"limit":    maxTickers,
		}).
		SetResult(&result)

	if c.apiKey != "" {
		req.SetHeader("X-BAPI-TIMESTAMP", strconv.FormatInt(time.Now().UnixMilli(), 10))
	}

	resp, err := req.Get(tickersPath)
	if err != nil {
		return nil, fetcher.NewTransportFailure(err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.NewStatusFailure(resp.StatusCode())
	}

	if result.RetCode != 0 {
		return nil, fetcher.NewAPIFailure(result.RetCode, result.RetMsg)
	}

	return result.Result.List, nil
}
