package fetcher

import "context"

// RawTicker is one ticker item exactly as the market API returns it.
// Every numeric field arrives as a string and may be empty; nothing is
// parsed or validated at this stage.
type RawTicker struct {
	Symbol        string `json:"symbol"`
	Bid1Price     string `json:"bid1Price"`
	Bid1Size      string `json:"bid1Size"`
	Ask1Price     string `json:"ask1Price"`
	Ask1Size      string `json:"ask1Size"`
	LastPrice     string `json:"lastPrice"`
	PrevPrice24h  string `json:"prevPrice24h"`
	Price24hPcnt  string `json:"price24hPcnt"`
	HighPrice24h  string `json:"highPrice24h"`
	LowPrice24h   string `json:"lowPrice24h"`
	Turnover24h   string `json:"turnover24h"`
	Volume24h     string `json:"volume24h"`
	UsdIndexPrice string `json:"usdIndexPrice"`
}

// TickerFetcher is the interface every market-data source must implement.
// Fetch retrieves the raw ticker list for one instrument category and
// returns a *Failure on transport or application-level errors.
type TickerFetcher interface {
	Fetch(ctx context.Context, category string) ([]RawTicker, error)
}
