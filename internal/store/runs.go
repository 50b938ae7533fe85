package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/draw"
)

// RecordRun appends a run to the journal. Recording the same run id twice
// is a no-op.
func (s *Store) RecordRun(ctx context.Context, run delta.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs
		(id, started_at, finished_at, status, local_id, remote_id, fetched, pages, stop_reason, total, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Status.String(),
		string(run.Local),
		string(run.Remote),
		run.Fetched,
		run.Pages,
		string(run.Stop),
		run.Total,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns at most n runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, n int) ([]delta.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, local_id, remote_id,
		       fetched, pages, stop_reason, total, error
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []delta.Run
	for rows.Next() {
		var (
			run                   delta.Run
			started, finished     string
			status, local, remote string
			stop                  string
		)
		if err := rows.Scan(&run.ID, &started, &finished, &status, &local, &remote,
			&run.Fetched, &run.Pages, &stop, &run.Total, &run.Error); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, fmt.Errorf("list runs: %s: %w", run.ID, err)
		}
		if run.FinishedAt, err = parseTime(finished); err != nil {
			return nil, fmt.Errorf("list runs: %s: %w", run.ID, err)
		}
		if run.Status, err = delta.ParseKind(status); err != nil {
			return nil, fmt.Errorf("list runs: %s: %w", run.ID, err)
		}
		run.Local = draw.DrawID(local)
		run.Remote = draw.DrawID(remote)
		run.Stop = delta.StopReason(stop)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
