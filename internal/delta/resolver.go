package delta

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roach88/drawsync/internal/draw"
	"github.com/roach88/drawsync/internal/logging"
)

// ErrNoRemoteData means page 1 held no entry with a usable draw id.
var ErrNoRemoteData = errors.New("remote source returned no usable draws")

// Decision is the outcome of a boundary check.
type Decision struct {
	Local           draw.DrawID `json:"local"`
	Remote          draw.DrawID `json:"remote"`
	UpdateAvailable bool        `json:"update_available"`
}

// Resolver decides whether the remote source holds draws newer than the
// local dataset, using a single request for page 1.
type Resolver struct {
	src PageSource
	log logrus.FieldLogger
}

// NewResolver creates a Resolver. A nil log discards diagnostics.
func NewResolver(src PageSource, log logrus.FieldLogger) *Resolver {
	if log == nil {
		log = logging.Discard()
	}
	return &Resolver{src: src, log: log}
}

// Resolve fetches page 1 and compares its newest id with local. "0" or an
// empty local id means there is no local data. Any request failure or a
// page without usable ids is returned as an error; the caller must not
// fetch or merge in that case.
func (r *Resolver) Resolve(ctx context.Context, local draw.DrawID) (Decision, error) {
	if local.IsZero() {
		local = draw.NoData
	}
	d := Decision{Local: local}

	page, err := r.src.FetchPage(ctx, 1)
	if err != nil {
		return d, fmt.Errorf("resolve remote newest: %w", err)
	}

	for _, e := range page.Entries {
		id, err := draw.ParseDrawID(e.DrawID)
		if err != nil {
			continue
		}
		d.Remote = id
		d.UpdateAvailable = draw.Newer(id, local)
		r.log.WithFields(logrus.Fields{
			"local":  local,
			"remote": id,
			"update": d.UpdateAvailable,
		}).Debug("boundary resolved")
		return d, nil
	}

	return d, ErrNoRemoteData
}
