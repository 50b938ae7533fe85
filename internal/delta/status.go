package delta

import (
	"fmt"

	"github.com/roach88/drawsync/internal/draw"
)

// Kind classifies the outcome of CheckAndFetchDelta.
type Kind int

const (
	// UpToDate means the remote holds nothing newer than the local data.
	UpToDate Kind = iota

	// Updated means the walk finished normally. Count may be zero when the
	// remote was newer but no valid record survived filtering.
	Updated

	// PartialFailure means a page request failed after the walk started;
	// records from earlier pages are still returned.
	PartialFailure

	// Unreachable means the boundary could not be resolved; nothing was
	// fetched.
	Unreachable
)

var kindNames = map[Kind]string{
	UpToDate:       "up_to_date",
	Updated:        "updated",
	PartialFailure: "partial_failure",
	Unreachable:    "unreachable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown status kind %q", s)
}

// Status describes a CheckAndFetchDelta outcome.
type Status struct {
	Kind   Kind        `json:"kind"`
	Count  int         `json:"count"`
	Reason error       `json:"-"`
	Local  draw.DrawID `json:"local"`
	Remote draw.DrawID `json:"remote,omitempty"`
	Pages  int         `json:"pages"`
	Stop   StopReason  `json:"stop,omitempty"`
}

// ReasonText returns the failure reason as text, or "".
func (s Status) ReasonText() string {
	if s.Reason == nil {
		return ""
	}
	return s.Reason.Error()
}

func (s Status) String() string {
	switch s.Kind {
	case UpToDate:
		return "up to date"
	case Updated:
		return fmt.Sprintf("updated (%d new)", s.Count)
	case PartialFailure:
		return fmt.Sprintf("partial failure (%d new): %v", s.Count, s.Reason)
	case Unreachable:
		return fmt.Sprintf("unreachable: %v", s.Reason)
	default:
		return s.Kind.String()
	}
}
