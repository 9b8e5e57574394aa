package fetcher

import (
	"time"

	"resty.dev/v3"
)

const defaultTimeout = 10 * time.Second

// NewHTTPClient creates an HTTP client with a bounded request timeout.
// A fetch failure aborts the whole ingestion cycle, so there is no
// automatic retry here; repeated cycles are the caller's concern.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
}
