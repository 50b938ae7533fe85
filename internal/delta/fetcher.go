package delta

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/roach88/drawsync/internal/draw"
)

// FetchResult is the delta gathered by a walk.
type FetchResult struct {
	Records    []draw.Record `json:"records"`
	Pages      int           `json:"pages"`
	Stop       StopReason    `json:"stop"`
	Skipped    int           `json:"skipped"`
	Duplicates int           `json:"duplicates"`
}

// Fetcher collects every record newer than a boundary.
type Fetcher struct {
	src  PageSource
	opts Options
}

// NewFetcher creates a Fetcher.
func NewFetcher(src PageSource, opts Options) *Fetcher {
	return &Fetcher{src: src, opts: opts}
}

// Fetch walks the source and returns the records newer than boundary in the
// order they were encountered (newest first). A non-nil error means the walk
// failed part way; the result still holds the records from earlier pages.
func (f *Fetcher) Fetch(ctx context.Context, boundary draw.DrawID) (FetchResult, error) {
	w := NewWalker(f.src, boundary, f.opts)

	var records []draw.Record
	for w.Next(ctx) {
		records = append(records, w.Records()...)
	}

	res := FetchResult{
		Records:    records,
		Pages:      w.Pages(),
		Stop:       w.Stop(),
		Skipped:    w.Skipped(),
		Duplicates: w.Duplicates(),
	}

	f.opts.logger().WithFields(logrus.Fields{
		"boundary": boundary,
		"records":  len(records),
		"pages":    res.Pages,
		"stop":     res.Stop,
		"skipped":  res.Skipped,
	}).Debug("walk finished")

	return res, w.Err()
}
