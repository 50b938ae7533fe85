package delta

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roach88/drawsync/internal/draw"
)

// StopReason explains why a walk ended.
type StopReason string

const (
	// StopNone means the walk has not ended.
	StopNone StopReason = ""

	// StopBoundary means an entry with id <= boundary was reached.
	StopBoundary StopReason = "boundary"

	// StopExhausted means the source returned an empty page.
	StopExhausted StopReason = "exhausted"

	// StopPageCap means the page cap was reached.
	StopPageCap StopReason = "page_cap"

	// StopFailed means a page request failed or the context was cancelled.
	StopFailed StopReason = "failed"
)

// Walker pulls pages from a source, newest first, and yields the valid
// records strictly newer than the boundary. Use it like bufio.Scanner:
//
//	w := NewWalker(src, boundary, opts)
//	for w.Next(ctx) {
//		use(w.Records())
//	}
//	if err := w.Err(); err != nil { ... }
//
// A Walker is not safe for concurrent use.
type Walker struct {
	src      PageSource
	boundary draw.DrawID
	opts     Options
	log      logrus.FieldLogger

	page    int
	records []draw.Record
	seen    map[string]struct{}
	stop    StopReason
	err     error
	skipped int
	dups    int
}

// NewWalker creates a walker for records newer than boundary.
func NewWalker(src PageSource, boundary draw.DrawID, opts Options) *Walker {
	if boundary.IsZero() {
		boundary = draw.NoData
	}
	return &Walker{
		src:      src,
		boundary: boundary,
		opts:     opts,
		log:      opts.logger(),
		seen:     make(map[string]struct{}),
	}
}

// Next requests the next page. It returns false once the walk has stopped;
// Stop and Err then describe why. A true result may come with an empty
// Records slice when every entry on the page was skipped.
func (w *Walker) Next(ctx context.Context) bool {
	w.records = nil
	if w.stop != StopNone {
		return false
	}
	if w.page >= w.opts.pageCap() {
		w.stop = StopPageCap
		return false
	}
	if err := ctx.Err(); err != nil {
		w.fail(fmt.Errorf("walk cancelled before page %d: %w", w.page+1, err))
		return false
	}

	w.page++
	w.opts.notify(w.page)
	log := w.log.WithField("page", w.page)
	log.Debug("fetching page")

	page, err := w.src.FetchPage(ctx, w.page)
	if err != nil {
		w.fail(fmt.Errorf("fetch page %d: %w", w.page, err))
		return false
	}
	if len(page.Entries) == 0 {
		w.stop = StopExhausted
		return false
	}

	for _, e := range page.Entries {
		rec, err := draw.ParseEntry(e.DrawID, e.DrawDate, e.Result)
		if err != nil {
			w.skipped++
			log.WithError(err).Debug("skipping invalid entry")
			continue
		}
		if draw.Compare(rec.DrawID, w.boundary) <= 0 {
			w.stop = StopBoundary
			break
		}
		key := rec.DrawID.Key()
		if _, dup := w.seen[key]; dup {
			w.dups++
			continue
		}
		w.seen[key] = struct{}{}
		w.records = append(w.records, rec)
	}

	log.WithField("records", len(w.records)).Debug("page processed")
	return true
}

func (w *Walker) fail(err error) {
	w.stop = StopFailed
	w.err = err
}

// Records returns the records of the current page in source order.
func (w *Walker) Records() []draw.Record {
	return w.records
}

// Stop returns why the walk ended, or StopNone while it is running.
func (w *Walker) Stop() StopReason {
	return w.stop
}

// Err returns the failure that ended the walk, if any.
func (w *Walker) Err() error {
	return w.err
}

// Pages returns how many pages have been requested.
func (w *Walker) Pages() int {
	return w.page
}

// Skipped returns how many invalid entries were dropped.
func (w *Walker) Skipped() int {
	return w.skipped
}

// Duplicates returns how many repeated ids were dropped.
func (w *Walker) Duplicates() int {
	return w.dups
}
