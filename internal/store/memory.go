package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"marketboard/internal/ticker"
)

// Memory is an in-process Store used when no database is configured,
// e.g. for one-shot CSV/HTML exports and in tests. A single RWMutex
// covers the whole map, which keeps upserts atomic per symbol.
type Memory struct {
	mu      sync.RWMutex
	records map[string]ticker.Record

	// now is swappable in tests
	now func() time.Time
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]ticker.Record),
		now:     time.Now,
	}
}

func (m *Memory) Upsert(ctx context.Context, rec ticker.Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.records[rec.Symbol]
	rec.UpdatedAt = m.now().UTC()
	m.records[rec.Symbol] = rec

	return !exists, nil
}

func (m *Memory) All(ctx context.Context) ([]ticker.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ticker.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })

	return out, nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records), nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}
