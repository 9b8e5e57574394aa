package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"marketboard/internal/fetcher"
	"marketboard/internal/store"
	"marketboard/internal/testutil"
)

func TestRunner_Run_Success(t *testing.T) {
	list := []fetcher.RawTicker{
		{Symbol: "BTCUSDT", LastPrice: "110", PrevPrice24h: "100", Volume24h: "9000"},
		{Symbol: "ETHUSDT", LastPrice: "90", PrevPrice24h: "100", Volume24h: "5000"},
	}

	s := store.NewMemory()
	runner := New(testutil.NewMockFetcher(list, nil), s, nil)

	report, err := runner.Run(context.Background(), "spot")
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if report.Processed != 2 {
		t.Errorf("Processed = %d, want 2", report.Processed)
	}
	if report.Created != 2 {
		t.Errorf("Created = %d, want 2", report.Created)
	}
	if len(report.Failures) != 0 {
		t.Errorf("got %d failures, want 0", len(report.Failures))
	}

	all, _ := s.All(context.Background())
	if len(all) != 2 {
		t.Fatalf("store holds %d records, want 2", len(all))
	}
	if all[0].Symbol != "BTCUSDT" {
		t.Errorf("first record = %q, want BTCUSDT (highest volume)", all[0].Symbol)
	}
	if all[0].PriceChangePct24h != 10.0 {
		t.Errorf("BTCUSDT pct = %v, want 10.0", all[0].PriceChangePct24h)
	}
	if all[1].PriceChangePct24h != -10.0 {
		t.Errorf("ETHUSDT pct = %v, want -10.0", all[1].PriceChangePct24h)
	}
}

func TestRunner_Run_SecondCycleUpdates(t *testing.T) {
	s := store.NewMemory()

	first := testutil.NewMockFetcher([]fetcher.RawTicker{
		{Symbol: "BTCUSDT", LastPrice: "100", PrevPrice24h: "100"},
	}, nil)
	if _, err := New(first, s, nil).Run(context.Background(), "spot"); err != nil {
		t.Fatalf("first Run() returned unexpected error: %v", err)
	}

	second := testutil.NewMockFetcher([]fetcher.RawTicker{
		{Symbol: "BTCUSDT", LastPrice: "120", PrevPrice24h: "100"},
	}, nil)

	report, err := New(second, s, nil).Run(context.Background(), "spot")
	if err != nil {
		t.Fatalf("second Run() returned unexpected error: %v", err)
	}

	if report.Created != 0 {
		t.Errorf("Created = %d, want 0 on second cycle", report.Created)
	}
	if report.Updated != 1 {
		t.Errorf("Updated = %d, want 1 on second cycle", report.Updated)
	}

	all, _ := s.All(context.Background())
	if len(all) != 1 {
		t.Fatalf("store holds %d records, want 1 (no duplicates)", len(all))
	}
	if all[0].PriceChangePct24h != 20.0 {
		t.Errorf("pct = %v, want 20.0 from second payload", all[0].PriceChangePct24h)
	}
}

func TestRunner_Run_PartialFailures(t *testing.T) {
	// 10 items, 2 with missing symbols.
	var list []fetcher.RawTicker
	for i := 0; i < 8; i++ {
		list = append(list, fetcher.RawTicker{
			Symbol:    fmt.Sprintf("PAIR%dUSDT", i),
			LastPrice: "100",
		})
	}
	list = append(list,
		fetcher.RawTicker{LastPrice: "50"},
		fetcher.RawTicker{LastPrice: "60"},
	)

	s := store.NewMemory()
	runner := New(testutil.NewMockFetcher(list, nil), s, nil)

	report, err := runner.Run(context.Background(), "spot")
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if report.Processed != 10 {
		t.Errorf("Processed = %d, want 10", report.Processed)
	}
	if report.Created != 8 {
		t.Errorf("Created = %d, want 8", report.Created)
	}
	if len(report.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(report.Failures))
	}

	for i, failure := range report.Failures {
		var f *fetcher.Failure
		if !errors.As(failure, &f) {
			t.Fatalf("failure %d is %T, want *fetcher.Failure", i, failure)
		}
		if f.Kind != fetcher.KindInvalidRecord {
			t.Errorf("failure %d kind = %q, want %q", i, f.Kind, fetcher.KindInvalidRecord)
		}
	}

	count, _ := s.Count(context.Background())
	if count != 8 {
		t.Errorf("store holds %d records, want 8 valid items upserted", count)
	}
}

func TestRunner_Run_FetchFailureAbortsCycle(t *testing.T) {
	s := store.NewMemory()

	// Seed the store so we can verify it is untouched by the failed cycle.
	seeded := testutil.NewMockFetcher([]fetcher.RawTicker{
		{Symbol: "BTCUSDT", LastPrice: "100"},
	}, nil)
	if _, err := New(seeded, s, nil).Run(context.Background(), "spot"); err != nil {
		t.Fatalf("seed Run() returned unexpected error: %v", err)
	}
	before, _ := s.All(context.Background())

	failing := testutil.NewMockFetcher(nil, fetcher.NewTransportFailure(errors.New("connection refused")))

	report, err := New(failing, s, nil).Run(context.Background(), "spot")
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}

	var f *fetcher.Failure
	if !errors.As(err, &f) {
		t.Fatalf("error is %T, want *fetcher.Failure", err)
	}
	if f.Kind != fetcher.KindTransport {
		t.Errorf("failure kind = %q, want %q", f.Kind, fetcher.KindTransport)
	}

	if report.Processed != 0 || report.Created != 0 || report.Updated != 0 {
		t.Errorf("report = %+v, want all-zero after aborted cycle", report)
	}

	after, _ := s.All(context.Background())
	if len(after) != len(before) {
		t.Fatalf("store changed by failed cycle: %d records, want %d", len(after), len(before))
	}
	if !after[0].UpdatedAt.Equal(before[0].UpdatedAt) {
		t.Error("store record touched by failed cycle")
	}
}

func TestRunner_Run_UpsertFailureIsolated(t *testing.T) {
	list := []fetcher.RawTicker{
		{Symbol: "BTCUSDT", LastPrice: "100"},
		{Symbol: "ETHUSDT", LastPrice: "200"},
	}

	failing := &testutil.FailingStore{
		Wrapped: store.NewMemory(),
		Err:     errors.New("database unavailable"),
	}
	runner := New(testutil.NewMockFetcher(list, nil), failing, nil)

	report, err := runner.Run(context.Background(), "spot")
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if report.Processed != 2 {
		t.Errorf("Processed = %d, want 2", report.Processed)
	}
	if len(report.Failures) != 2 {
		t.Errorf("got %d failures, want 2 (one per upsert)", len(report.Failures))
	}
	if report.Created != 0 {
		t.Errorf("Created = %d, want 0", report.Created)
	}
}
