package ticker

import "time"

// Record is the canonical normalized ticker for one trading pair.
// Optional decimals are nil when the source field was missing, empty,
// or unparsable. PriceChangePct24h is the one derived field and is
// always present, defaulting to 0 when it cannot be computed.
type Record struct {
	Symbol            string    `json:"symbol"`
	BidPrice          *float64  `json:"bid_price"`
	AskPrice          *float64  `json:"ask_price"`
	LastPrice         *float64  `json:"last_price"`
	PrevPrice24h      *float64  `json:"prev_price_24h"`
	PriceChangePct24h float64   `json:"price_change_pct_24h"`
	HighPrice24h      *float64  `json:"high_price_24h"`
	LowPrice24h       *float64  `json:"low_price_24h"`
	Volume24h         *float64  `json:"volume_24h"`
	Turnover24h       *float64  `json:"turnover_24h"`
	USDIndexPrice     *float64  `json:"usd_index_price"`
	Category          string    `json:"category"`
	UpdatedAt         time.Time `json:"updated_at"`
}
