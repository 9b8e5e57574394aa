// Package store persists the latest ticker record per trading pair.
// Upsert is last-write-wins keyed by symbol, and every implementation
// stamps UpdatedAt itself at write time so freshness tracking is not in
// the caller's hands.
package store

import (
	"context"

	"marketboard/internal/ticker"
)

// Store is the keyed ticker store. All implementations must make Upsert
// atomic per symbol: no reader may observe a partially updated record.
type Store interface {
	// Upsert inserts the record if its symbol is new, otherwise
	// overwrites every field of the existing record. It reports whether
	// a new record was created.
	Upsert(ctx context.Context, rec ticker.Record) (created bool, err error)

	// All returns every record ordered by volume_24h descending with
	// nil volumes last, ties broken by symbol ascending.
	All(ctx context.Context) ([]ticker.Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// Less is the canonical listing order: non-increasing volume_24h with
// absent volumes after all present ones, then symbol ascending. Shared
// so the in-memory store and tests agree with the SQL ORDER BY.
func Less(a, b ticker.Record) bool {
	switch {
	case a.Volume24h == nil && b.Volume24h == nil:
		return a.Symbol < b.Symbol
	case a.Volume24h == nil:
		return false
	case b.Volume24h == nil:
		return true
	case *a.Volume24h != *b.Volume24h:
		return *a.Volume24h > *b.Volume24h
	default:
		return a.Symbol < b.Symbol
	}
}
