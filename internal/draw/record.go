package draw

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TokenCount is the number of result tokens in a valid draw.
const TokenCount = 7

// NoData is the sentinel newest id of an empty dataset.
const NoData DrawID = "0"

// Validation errors reported by ParseEntry.
var (
	ErrMissingID  = errors.New("missing draw id")
	ErrInvalidID  = errors.New("draw id is not a decimal number")
	ErrTokenCount = fmt.Errorf("result must have exactly %d tokens", TokenCount)
)

// DrawID identifies a draw. It is a string of decimal digits whose numeric
// value increases strictly with recency.
type DrawID string

// Numbers is the ordered draw result.
type Numbers [TokenCount]string

// Record is one unit of draw history.
type Record struct {
	DrawDate string  `json:"draw_date"`
	DrawID   DrawID  `json:"draw_id"`
	Numbers  Numbers `json:"numbers"`
}

// EntryError describes why a raw entry was rejected.
type EntryError struct {
	DrawID string
	Err    error
}

func (e *EntryError) Error() string {
	if e.DrawID == "" {
		return fmt.Sprintf("invalid entry: %v", e.Err)
	}
	return fmt.Sprintf("invalid entry %q: %v", e.DrawID, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// IsEntryError reports whether err is an entry validation error.
func IsEntryError(err error) bool {
	var ee *EntryError
	return errors.As(err, &ee)
}

// ParseDrawID validates s as a draw id. Surrounding whitespace is trimmed.
func ParseDrawID(s string) (DrawID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrMissingID
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidID
		}
	}
	return DrawID(s), nil
}

// ParseEntry builds a Record from the raw fields of a remote entry.
//
// The result string is folded with NFKC (full-width digits and ideographic
// spaces become ASCII) and split on whitespace.
func ParseEntry(id, date, result string) (Record, error) {
	drawID, err := ParseDrawID(id)
	if err != nil {
		return Record{}, &EntryError{DrawID: id, Err: err}
	}

	tokens := strings.Fields(norm.NFKC.String(result))
	if len(tokens) != TokenCount {
		return Record{}, &EntryError{
			DrawID: id,
			Err:    fmt.Errorf("%w: got %d", ErrTokenCount, len(tokens)),
		}
	}

	rec := Record{DrawDate: date, DrawID: drawID}
	copy(rec.Numbers[:], tokens)
	return rec, nil
}

// IsZero reports whether the id means "no data".
func (d DrawID) IsZero() bool {
	return d.Key() == "0"
}

// Key returns the canonical form of the id (leading zeros removed, "0" for
// empty). Two ids with the same numeric value have the same key.
func (d DrawID) Key() string {
	s := strings.TrimLeft(strings.TrimSpace(string(d)), "0")
	if s == "" {
		return "0"
	}
	return s
}

func (d DrawID) String() string {
	return string(d)
}

// Compare compares two ids numerically. It returns -1 if a < b, 0 if equal
// and +1 if a > b. Ids are compared as unbounded decimal numbers.
func Compare(a, b DrawID) int {
	ka, kb := a.Key(), b.Key()
	if len(ka) != len(kb) {
		if len(ka) < len(kb) {
			return -1
		}
		return 1
	}
	return strings.Compare(ka, kb)
}

// Newer reports whether a is strictly newer than b.
func Newer(a, b DrawID) bool {
	return Compare(a, b) > 0
}

// Slice returns the numbers as a slice, for column-oriented adapters.
func (n Numbers) Slice() []string {
	return n[:]
}

// Joined returns the numbers separated by single spaces, the wire form.
func (n Numbers) Joined() string {
	return strings.Join(n[:], " ")
}
