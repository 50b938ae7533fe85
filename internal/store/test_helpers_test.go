package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/drawsync/internal/draw"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecords creates valid records for ids, in order.
func createTestRecords(ids ...string) []draw.Record {
	records := make([]draw.Record, len(ids))
	for i, id := range ids {
		records[i] = draw.Record{
			DrawDate: "2025-10-" + id[len(id)-2:],
			DrawID:   draw.DrawID(id),
			Numbers:  draw.Numbers{"0", "1", "2", "3", "4", "5", "6"},
		}
	}
	return records
}

func recordIDs(records []draw.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = string(r.DrawID)
	}
	return ids
}
