package testutil

import (
	"context"
	"sync"

	"github.com/roach88/drawsync/internal/draw"
)

// MemoryStore is an in-memory draw store with error injection.
type MemoryStore struct {
	mu       sync.Mutex
	records  []draw.Record
	ReadErr  error
	WriteErr error
	writes   int
}

// NewMemoryStore creates a store holding records (newest first).
func NewMemoryStore(records ...draw.Record) *MemoryStore {
	return &MemoryStore{records: append([]draw.Record(nil), records...)}
}

// ReadExisting returns a copy of the stored dataset.
func (m *MemoryStore) ReadExisting(ctx context.Context) (draw.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return draw.Dataset{}, m.ReadErr
	}
	return draw.Dataset{Records: append([]draw.Record(nil), m.records...)}, nil
}

// WriteAll replaces the stored dataset. It fails on a cancelled context,
// like the database stores do.
func (m *MemoryStore) WriteAll(ctx context.Context, records []draw.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.records = append([]draw.Record(nil), records...)
	m.writes++
	return nil
}

// Records returns a copy of the stored records.
func (m *MemoryStore) Records() []draw.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]draw.Record(nil), m.records...)
}

// Writes returns how many successful WriteAll calls happened.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Record returns a valid record for id.
func Record(id string) draw.Record {
	return draw.Record{
		DrawDate: "date-" + id,
		DrawID:   draw.DrawID(id),
		Numbers:  draw.Numbers{"1", "2", "3", "4", "5", "6", "7"},
	}
}

// Records returns valid records for ids, in order.
func Records(ids ...string) []draw.Record {
	out := make([]draw.Record, len(ids))
	for i, id := range ids {
		out[i] = Record(id)
	}
	return out
}
