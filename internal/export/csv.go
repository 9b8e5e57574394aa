// Package export serializes stored ticker records into flat artifacts:
// a CSV snapshot and a self-contained static HTML table. Both format
// stored values only; the 24h change percentage is computed once at
// ingestion and never recomputed here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"marketboard/internal/ticker"
)

// csvHeader is the fixed column order of the CSV snapshot
var csvHeader = []string{
	"symbol",
	"bidPrice",
	"askPrice",
	"lastPrice",
	"prevPrice24h",
	"priceChangePct24h",
	"highPrice24h",
	"lowPrice24h",
	"turnover24h",
	"volume24h",
	"usdIndexPrice",
	"category",
}

// WriteCSV writes the records as CSV in the fixed column order.
// Absent optional fields become empty cells.
func WriteCSV(w io.Writer, records []ticker.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Symbol,
			formatOptional(rec.BidPrice),
			formatOptional(rec.AskPrice),
			formatOptional(rec.LastPrice),
			formatOptional(rec.PrevPrice24h),
			strconv.FormatFloat(rec.PriceChangePct24h, 'f', 4, 64),
			formatOptional(rec.HighPrice24h),
			formatOptional(rec.LowPrice24h),
			formatOptional(rec.Turnover24h),
			formatOptional(rec.Volume24h),
			formatOptional(rec.USDIndexPrice),
			rec.Category,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", rec.Symbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV snapshot to the given path
func WriteCSVFile(path string, records []ticker.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return err
	}
	return f.Close()
}

// formatOptional renders an optional decimal, empty when absent
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
