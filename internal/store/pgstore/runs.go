package pgstore

import (
	"context"
	"fmt"

	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/draw"
)

// RecordRun appends a run to the journal. Recording the same run id twice
// is a no-op.
func (s *Store) RecordRun(ctx context.Context, run delta.Run) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sync_runs
		(id, started_at, finished_at, status, local_id, remote_id, fetched, pages, stop_reason, total, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`,
		run.ID,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
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
	rows, err := s.pool.Query(ctx, `
		SELECT id, started_at, finished_at, status, local_id, remote_id,
		       fetched, pages, stop_reason, total, error
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []delta.Run
	for rows.Next() {
		var (
			run                         delta.Run
			status, local, remote, stop string
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &status, &local, &remote,
			&run.Fetched, &run.Pages, &stop, &run.Total, &run.Error); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		if run.Status, err = delta.ParseKind(status); err != nil {
			return nil, fmt.Errorf("list runs: %s: %w", run.ID, err)
		}
		run.StartedAt = run.StartedAt.UTC()
		run.FinishedAt = run.FinishedAt.UTC()
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
