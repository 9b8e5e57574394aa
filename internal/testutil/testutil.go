package testutil

import (
	"context"

	"marketboard/internal/fetcher"
	"marketboard/internal/ticker"
)

// MockFetcher is a mock implementation of fetcher.TickerFetcher for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, category string) ([]fetcher.RawTicker, error)
}

// Fetch implements the TickerFetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, category string) ([]fetcher.RawTicker, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, category)
	}
	return nil, nil
}

// NewMockFetcher creates a mock fetcher returning predefined values
func NewMockFetcher(list []fetcher.RawTicker, err error) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, category string) ([]fetcher.RawTicker, error) {
			return list, err
		},
	}
}

// FailingStore wraps a store.Store-compatible upsert that always errors.
// Reads delegate to the wrapped store so partially failed cycles can
// still be inspected.
type FailingStore struct {
	Wrapped interface {
		All(ctx context.Context) ([]ticker.Record, error)
		Count(ctx context.Context) (int, error)
	}
	Err error
}

func (f *FailingStore) Upsert(ctx context.Context, rec ticker.Record) (bool, error) {
	return false, f.Err
}

func (f *FailingStore) All(ctx context.Context) ([]ticker.Record, error) {
	return f.Wrapped.All(ctx)
}

func (f *FailingStore) Count(ctx context.Context) (int, error) {
	return f.Wrapped.Count(ctx)
}

func (f *FailingStore) Ping(ctx context.Context) error { return nil }

func (f *FailingStore) Close() error { return nil }
