package ticker

import (
	"strconv"

	"marketboard/internal/fetcher"
)

// ParseOptional converts a raw numeric field to an optional float.
// Empty or unparsable input yields nil rather than zero or an error;
// upstream data is expected to be occasionally incomplete and partial
// items still get stored.
func ParseOptional(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Normalize maps one raw ticker payload to a canonical Record.
// A missing symbol fails the item with an invalid-record failure; every
// other field degrades to absent on bad input. UpdatedAt is left zero
// here, the store stamps it at write time.
func Normalize(raw fetcher.RawTicker, category string) (Record, error) {
	if raw.Symbol == "" {
		return Record{}, fetcher.NewInvalidRecordFailure("ticker item has no symbol")
	}

	rec := Record{
		Symbol:        raw.Symbol,
		BidPrice:      ParseOptional(raw.Bid1Price),
		AskPrice:      ParseOptional(raw.Ask1Price),
		LastPrice:     ParseOptional(raw.LastPrice),
		PrevPrice24h:  ParseOptional(raw.PrevPrice24h),
		HighPrice24h:  ParseOptional(raw.HighPrice24h),
		LowPrice24h:   ParseOptional(raw.LowPrice24h),
		Volume24h:     ParseOptional(raw.Volume24h),
		Turnover24h:   ParseOptional(raw.Turnover24h),
		USDIndexPrice: ParseOptional(raw.UsdIndexPrice),
		Category:      category,
	}

	rec.PriceChangePct24h = changePct(rec.LastPrice, rec.PrevPrice24h)

	return rec, nil
}

// changePct computes the 24h price change percentage. Absent inputs are
// treated as 0 and a previous price of 0 or below yields exactly 0,
// never a division error.
func changePct(last, prev *float64) float64 {
	l := valueOrZero(last)
	p := valueOrZero(prev)

	if p > 0 {
		return (l - p) / p * 100
	}
	return 0
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
