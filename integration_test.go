package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketboard/internal/bybit"
	"marketboard/internal/export"
	"marketboard/internal/ingest"
	"marketboard/internal/store"
	"marketboard/internal/web"
)

const tickersEnvelope = `{
	"retCode": 0,
	"retMsg": "OK",
	"result": {
		"category": "spot",
		"list": [
			{
				"symbol": "BTCUSDT",
				"bid1Price": "64999.5",
				"ask1Price": "65000.1",
				"lastPrice": "66000",
				"prevPrice24h": "60000",
				"highPrice24h": "66500",
				"lowPrice24h": "59800",
				"turnover24h": "1234567890.12",
				"volume24h": "19000.5"
			},
			{
				"symbol": "ETHUSDT",
				"lastPrice": "2500",
				"prevPrice24h": "2500",
				"volume24h": "90000"
			},
			{
				"symbol": "NEWUSDT",
				"lastPrice": "0.5",
				"prevPrice24h": "",
				"volume24h": ""
			},
			{
				"lastPrice": "1.0"
			}
		]
	}
}`

// TestIntegration_IngestToExport drives the whole pipeline: mock market
// API, ingestion cycle, store, CSV export, and the web listing.
func TestIntegration_IngestToExport(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category") != "spot" {
			t.Errorf("category = %q, want spot", r.URL.Query().Get("category"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(tickersEnvelope))
	}))
	defer apiServer.Close()

	ctx := context.Background()
	s := store.NewMemory()
	client := bybit.NewClient("", apiServer.URL, 10*time.Second, nil)
	runner := ingest.New(client, s, nil)

	report, err := runner.Run(ctx, "spot")
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if report.Processed != 4 {
		t.Errorf("Processed = %d, want 4", report.Processed)
	}
	if report.Created != 3 {
		t.Errorf("Created = %d, want 3", report.Created)
	}
	if len(report.Failures) != 1 {
		t.Errorf("got %d failures, want 1 (item without symbol)", len(report.Failures))
	}

	records, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() returned unexpected error: %v", err)
	}

	// Volume-descending, nil-volume last.
	wantOrder := []string{"ETHUSDT", "BTCUSDT", "NEWUSDT"}
	for i, want := range wantOrder {
		if records[i].Symbol != want {
			t.Errorf("records[%d] = %q, want %q", i, records[i].Symbol, want)
		}
	}

	btc := records[1]
	if btc.PriceChangePct24h != 10.0 {
		t.Errorf("BTCUSDT pct = %v, want 10.0", btc.PriceChangePct24h)
	}
	if btc.UpdatedAt.IsZero() {
		t.Error("BTCUSDT UpdatedAt not stamped")
	}

	// NEWUSDT has empty prev price and volume: absent, pct defaults to 0.
	newRec := records[2]
	if newRec.PrevPrice24h != nil {
		t.Errorf("NEWUSDT PrevPrice24h = %v, want nil", *newRec.PrevPrice24h)
	}
	if newRec.Volume24h != nil {
		t.Errorf("NEWUSDT Volume24h = %v, want nil", *newRec.Volume24h)
	}
	if newRec.PriceChangePct24h != 0 {
		t.Errorf("NEWUSDT pct = %v, want 0", newRec.PriceChangePct24h)
	}

	// CSV snapshot preserves the listing order and empty cells.
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV() returned unexpected error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to re-read CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d CSV rows, want header + 3 records", len(rows))
	}
	if rows[1][0] != "ETHUSDT" || rows[2][0] != "BTCUSDT" || rows[3][0] != "NEWUSDT" {
		t.Errorf("CSV order = %q,%q,%q, want ETHUSDT,BTCUSDT,NEWUSDT", rows[1][0], rows[2][0], rows[3][0])
	}

	// Web listing reflects the same store.
	handler := web.NewHandler(s, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/tickers", nil)
	rec := httptest.NewRecorder()
	handler.ListTickers(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("listing status = %d, want 200", rec.Code)
	}
}

// TestIntegration_SecondCycleOverwrites verifies last-write-wins across
// two full cycles against the same store.
func TestIntegration_SecondCycleOverwrites(t *testing.T) {
	payloads := []string{
		`{"retCode":0,"retMsg":"OK","result":{"list":[{"symbol":"BTCUSDT","lastPrice":"100","prevPrice24h":"100"}]}}`,
		`{"retCode":0,"retMsg":"OK","result":{"list":[{"symbol":"BTCUSDT","lastPrice":"110","prevPrice24h":"100"}]}}`,
	}
	call := 0

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(payloads[call]))
		if call < len(payloads)-1 {
			call++
		}
	}))
	defer apiServer.Close()

	ctx := context.Background()
	s := store.NewMemory()
	runner := ingest.New(bybit.NewClient("", apiServer.URL, 10*time.Second, nil), s, nil)

	first, err := runner.Run(ctx, "spot")
	if err != nil {
		t.Fatalf("first Run() returned unexpected error: %v", err)
	}
	if first.Created != 1 {
		t.Errorf("first Created = %d, want 1", first.Created)
	}

	second, err := runner.Run(ctx, "spot")
	if err != nil {
		t.Fatalf("second Run() returned unexpected error: %v", err)
	}
	if second.Created != 0 || second.Updated != 1 {
		t.Errorf("second report = %+v, want 0 created / 1 updated", second)
	}

	count, _ := s.Count(ctx)
	if count != 1 {
		t.Fatalf("store holds %d records, want 1", count)
	}

	records, _ := s.All(ctx)
	if records[0].PriceChangePct24h != 10.0 {
		t.Errorf("pct = %v, want 10.0 from second cycle", records[0].PriceChangePct24h)
	}
}
