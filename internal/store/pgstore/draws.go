package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/roach88/drawsync/internal/draw"
)

const selectDraws = `
	SELECT draw_id, draw_date, numbers
	FROM draws
	ORDER BY position ASC`

// ReadExisting returns the stored history, newest first.
func (s *Store) ReadExisting(ctx context.Context) (draw.Dataset, error) {
	records, err := s.query(ctx, selectDraws)
	if err != nil {
		return draw.Dataset{}, fmt.Errorf("read draws: %w", err)
	}
	return draw.Dataset{Records: records}, nil
}

// Latest returns at most n of the newest draws.
func (s *Store) Latest(ctx context.Context, n int) ([]draw.Record, error) {
	records, err := s.query(ctx, selectDraws+" LIMIT $1", n)
	if err != nil {
		return nil, fmt.Errorf("latest draws: %w", err)
	}
	return records, nil
}

// WriteAll replaces the stored history in one transaction, bulk loading
// the new rows with COPY.
func (s *Store) WriteAll(ctx context.Context, records []draw.Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("write draws: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, "DELETE FROM draws"); err != nil {
		return fmt.Errorf("write draws: clear: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"draws"},
		[]string{"position", "draw_id", "draw_date", "numbers"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{i, string(rec.DrawID), rec.DrawDate, rec.Numbers.Slice()}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("write draws: copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("write draws: commit: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]draw.Record, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []draw.Record
	for rows.Next() {
		var (
			id, date string
			numbers  []string
		)
		if err := rows.Scan(&id, &date, &numbers); err != nil {
			return nil, err
		}
		if len(numbers) != draw.TokenCount {
			return nil, fmt.Errorf("draw %s: %w: got %d", id, draw.ErrTokenCount, len(numbers))
		}
		rec := draw.Record{DrawID: draw.DrawID(id), DrawDate: date}
		copy(rec.Numbers[:], numbers)
		records = append(records, rec)
	}
	return records, rows.Err()
}
