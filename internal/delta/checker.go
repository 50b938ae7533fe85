package delta

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/roach88/drawsync/internal/draw"
)

// Checker runs the boundary check and, when the remote is newer, the delta
// fetch.
type Checker struct {
	resolver *Resolver
	fetcher  *Fetcher
	log      logrus.FieldLogger
}

// NewChecker creates a Checker over src.
func NewChecker(src PageSource, opts Options) *Checker {
	return &Checker{
		resolver: NewResolver(src, opts.Log),
		fetcher:  NewFetcher(src, opts),
		log:      opts.logger(),
	}
}

// Resolve runs only the boundary check.
func (c *Checker) Resolve(ctx context.Context, boundary draw.DrawID) (Decision, error) {
	return c.resolver.Resolve(ctx, boundary)
}

// CheckAndFetchDelta returns the records newer than boundary, newest first,
// with the outcome. The fetch runs only when the remote newest id is
// strictly greater than boundary.
func (c *Checker) CheckAndFetchDelta(ctx context.Context, boundary draw.DrawID) ([]draw.Record, Status) {
	decision, err := c.resolver.Resolve(ctx, boundary)
	if err != nil {
		c.log.WithError(err).Warn("remote source unreachable")
		return nil, Status{Kind: Unreachable, Reason: err, Local: decision.Local}
	}
	if !decision.UpdateAvailable {
		c.log.WithFields(logrus.Fields{
			"local":  decision.Local,
			"remote": decision.Remote,
		}).Info("already up to date")
		return nil, Status{Kind: UpToDate, Local: decision.Local, Remote: decision.Remote}
	}

	c.log.WithFields(logrus.Fields{
		"local":  decision.Local,
		"remote": decision.Remote,
	}).Info("newer draws available, fetching delta")

	res, err := c.fetcher.Fetch(ctx, decision.Local)
	st := Status{
		Kind:   Updated,
		Count:  len(res.Records),
		Local:  decision.Local,
		Remote: decision.Remote,
		Pages:  res.Pages,
		Stop:   res.Stop,
	}
	if err != nil {
		st.Kind = PartialFailure
		st.Reason = err
		c.log.WithError(err).WithField("kept", st.Count).Warn("delta fetch failed part way")
	}
	return res.Records, st
}
