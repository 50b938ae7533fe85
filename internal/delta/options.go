package delta

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/roach88/drawsync/internal/logging"
	"github.com/roach88/drawsync/internal/source"
)

// DefaultPageCap bounds the number of page requests per walk.
const DefaultPageCap = 100

// PageSource is the remote paginated source. Page 1 holds the newest
// entries; an empty page means there is no more data.
type PageSource interface {
	FetchPage(ctx context.Context, page int) (*source.Page, error)
}

// ProgressFunc observes every page attempt. It has no effect on the walk.
type ProgressFunc func(page int)

// Options configures walkers, fetchers and checkers.
type Options struct {
	// PageCap is the maximum number of page requests. Zero means
	// DefaultPageCap.
	PageCap int

	// Progress is called once per page attempt, before the request.
	Progress ProgressFunc

	// Log receives diagnostics. Nil discards them.
	Log logrus.FieldLogger
}

func (o Options) pageCap() int {
	if o.PageCap <= 0 {
		return DefaultPageCap
	}
	return o.PageCap
}

func (o Options) logger() logrus.FieldLogger {
	if o.Log == nil {
		return logging.Discard()
	}
	return o.Log
}

func (o Options) notify(page int) {
	if o.Progress != nil {
		o.Progress(page)
	}
}
