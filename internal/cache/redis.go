// Package cache holds a short-lived Redis snapshot of the full ticker
// listing so the web view does not hit the store on every request.
// It is optional; a nil *Snapshot means reads always go to the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketboard/internal/ticker"
)

const listingKey = "marketboard:tickers:all"

// Snapshot caches the ordered ticker listing under a single key
type Snapshot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshot connects to Redis and returns a listing cache
func NewSnapshot(addr, password string, db int, ttl time.Duration) (*Snapshot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Snapshot{
		client: client,
		ttl:    ttl,
	}, nil
}

// Get returns the cached listing, or ok=false on miss.
func (s *Snapshot) Get(ctx context.Context) ([]ticker.Record, bool, error) {
	data, err := s.client.Get(ctx, listingKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read listing cache: %w", err)
	}

	var records []ticker.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached listing: %w", err)
	}

	return records, true, nil
}

// Set stores the listing with the configured TTL
func (s *Snapshot) Set(ctx context.Context, records []ticker.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	if err := s.client.Set(ctx, listingKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write listing cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing, typically after an ingestion cycle
func (s *Snapshot) Invalidate(ctx context.Context) error {
	return s.client.Del(ctx, listingKey).Err()
}

func (s *Snapshot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Snapshot) Close() error {
	return s.client.Close()
}
