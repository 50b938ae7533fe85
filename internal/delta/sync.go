package delta

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roach88/drawsync/internal/draw"
)

// Store is the durable draw history.
type Store interface {
	// ReadExisting returns the stored dataset, newest first. An empty
	// dataset (newest "0") is returned when nothing has been stored yet.
	ReadExisting(ctx context.Context) (draw.Dataset, error)

	// WriteAll replaces the stored dataset. Readers never observe a
	// partially written dataset.
	WriteAll(ctx context.Context, records []draw.Record) error
}

// RunJournal is implemented by stores that keep a history of runs.
type RunJournal interface {
	RecordRun(ctx context.Context, run Run) error
}

// Run is one journal entry.
type Run struct {
	ID         string      `json:"id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Status     Kind        `json:"status"`
	Local      draw.DrawID `json:"local"`
	Remote     draw.DrawID `json:"remote"`
	Fetched    int         `json:"fetched"`
	Pages      int         `json:"pages"`
	Stop       StopReason  `json:"stop"`
	Total      int         `json:"total"`
	Error      string      `json:"error,omitempty"`
}

// Report describes one synchronization run.
type Report struct {
	RunID      string        `json:"run_id"`
	Status     Status        `json:"status"`
	Added      []draw.Record `json:"added"`
	Written    bool          `json:"written"`
	Total      int           `json:"total"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// SyncOptions configures a Synchronizer.
type SyncOptions struct {
	// PersistPartial writes the records gathered before a page failure.
	// The stored history may then miss draws between the oldest fetched
	// record and the previous newest one.
	PersistPartial bool

	// Now defaults to time.Now.
	Now func() time.Time

	// RunIDs defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	Log logrus.FieldLogger
}

// Synchronizer reads the store, fetches the delta, merges and writes back.
type Synchronizer struct {
	store   Store
	checker *Checker
	opts    SyncOptions
	log     logrus.FieldLogger
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(store Store, checker *Checker, opts SyncOptions) *Synchronizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RunIDs == nil {
		opts.RunIDs = UUIDv7Generator{}
	}
	log := opts.Log
	if log == nil {
		log = Options{}.logger()
	}
	return &Synchronizer{store: store, checker: checker, opts: opts, log: log}
}

// Sync runs one synchronization. Store failures are returned as errors and
// leave the stored data untouched. Source failures are not errors; they
// are reported in Report.Status.
func (s *Synchronizer) Sync(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     s.opts.RunIDs.Generate(),
		StartedAt: s.opts.Now(),
	}
	log := s.log.WithField("run_id", report.RunID)

	existing, err := s.store.ReadExisting(ctx)
	if err != nil {
		return nil, fmt.Errorf("read existing draws: %w", err)
	}
	if !draw.IsSortedDesc(existing.Records) {
		log.Warn("stored draws are not strictly descending; they will be reordered on the next write")
	}
	report.Total = existing.Len()

	records, status := s.checker.CheckAndFetchDelta(ctx, existing.Newest())
	report.Status = status
	report.Added = records

	// A cancelled walk still keeps the pages it fetched.
	persistCtx := context.WithoutCancel(ctx)

	var writeErr error
	if s.shouldWrite(status, records) {
		merged := draw.Merge(records, existing.Records)
		if err := s.store.WriteAll(persistCtx, merged); err != nil {
			writeErr = fmt.Errorf("write merged draws: %w", err)
		} else {
			report.Written = true
			report.Total = len(merged)
			log.WithFields(logrus.Fields{
				"added": len(records),
				"total": len(merged),
			}).Info("draws written")
			if status.Kind == PartialFailure {
				log.WithFields(logrus.Fields{
					"oldest_fetched": records[len(records)-1].DrawID,
					"boundary":       status.Local,
				}).Warn("partial delta stored; draws between these ids may be missing")
			}
		}
	}

	report.FinishedAt = s.opts.Now()
	s.journal(persistCtx, report, writeErr)

	if writeErr != nil {
		return report, writeErr
	}
	return report, nil
}

func (s *Synchronizer) shouldWrite(status Status, records []draw.Record) bool {
	if len(records) == 0 {
		return false
	}
	switch status.Kind {
	case Updated:
		return true
	case PartialFailure:
		return s.opts.PersistPartial
	default:
		return false
	}
}

func (s *Synchronizer) journal(ctx context.Context, report *Report, writeErr error) {
	j, ok := s.store.(RunJournal)
	if !ok {
		return
	}

	run := Run{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Status:     report.Status.Kind,
		Local:      report.Status.Local,
		Remote:     report.Status.Remote,
		Fetched:    len(report.Added),
		Pages:      report.Status.Pages,
		Stop:       report.Status.Stop,
		Total:      report.Total,
		Error:      report.Status.ReasonText(),
	}
	if writeErr != nil {
		run.Error = writeErr.Error()
	}

	if err := j.RecordRun(ctx, run); err != nil {
		s.log.WithError(err).WithField("run_id", run.ID).Warn("failed to record run")
	}
}
