package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/drawsync/internal/draw"
)

const selectDraws = `
	SELECT draw_id, draw_date, n1, n2, n3, n4, n5, n6, n7
	FROM draws
	ORDER BY position ASC`

// ReadExisting returns the stored history, newest first. An empty database
// yields an empty dataset.
func (s *Store) ReadExisting(ctx context.Context) (draw.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, selectDraws)
	if err != nil {
		return draw.Dataset{}, fmt.Errorf("read draws: %w", err)
	}
	records, err := scanDraws(rows)
	if err != nil {
		return draw.Dataset{}, fmt.Errorf("read draws: %w", err)
	}
	return draw.Dataset{Records: records}, nil
}

// Latest returns at most n of the newest draws.
func (s *Store) Latest(ctx context.Context, n int) ([]draw.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectDraws+" LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("latest draws: %w", err)
	}
	records, err := scanDraws(rows)
	if err != nil {
		return nil, fmt.Errorf("latest draws: %w", err)
	}
	return records, nil
}

// WriteAll replaces the stored history with records, in order. The
// replacement is a single transaction; on error nothing changes.
func (s *Store) WriteAll(ctx context.Context, records []draw.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write draws: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM draws"); err != nil {
		return fmt.Errorf("write draws: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draws (position, draw_id, draw_date, n1, n2, n3, n4, n5, n6, n7)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write draws: prepare: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		n := rec.Numbers
		if _, err := stmt.ExecContext(ctx,
			i, string(rec.DrawID), rec.DrawDate,
			n[0], n[1], n[2], n[3], n[4], n[5], n[6],
		); err != nil {
			return fmt.Errorf("write draws: insert %s: %w", rec.DrawID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write draws: commit: %w", err)
	}
	return nil
}

func scanDraws(rows *sql.Rows) ([]draw.Record, error) {
	defer rows.Close()

	var records []draw.Record
	for rows.Next() {
		var (
			rec draw.Record
			id  string
			n   = &rec.Numbers
		)
		if err := rows.Scan(&id, &rec.DrawDate, &n[0], &n[1], &n[2], &n[3], &n[4], &n[5], &n[6]); err != nil {
			return nil, err
		}
		rec.DrawID = draw.DrawID(id)
		records = append(records, rec)
	}
	return records, rows.Err()
}
