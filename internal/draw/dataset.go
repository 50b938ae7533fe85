package draw

import "slices"

// Dataset is the locally persisted draw history, newest first.
type Dataset struct {
	Records []Record
}

// Newest returns the id of the newest record, or NoData when empty.
func (d Dataset) Newest() DrawID {
	if len(d.Records) == 0 {
		return NoData
	}
	return d.Records[0].DrawID
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Merge places delta in front of existing and returns a dataset sorted by
// DrawID descending with unique ids.
//
// When an id appears more than once the first occurrence wins, with delta
// scanned before existing. If both inputs are already sorted and every delta
// id is newer than existing's newest, the result is their concatenation.
// Neither input is modified.
func Merge(delta, existing []Record) []Record {
	merged := make([]Record, 0, len(delta)+len(existing))
	seen := make(map[string]struct{}, len(delta)+len(existing))

	for _, part := range [][]Record{delta, existing} {
		for _, rec := range part {
			key := rec.DrawID.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, rec)
		}
	}

	if !IsSortedDesc(merged) {
		slices.SortStableFunc(merged, func(a, b Record) int {
			return Compare(b.DrawID, a.DrawID)
		})
	}
	return merged
}

// IsSortedDesc reports whether records are strictly descending by DrawID,
// which also implies that no id repeats.
func IsSortedDesc(records []Record) bool {
	for i := 1; i < len(records); i++ {
		if Compare(records[i-1].DrawID, records[i].DrawID) <= 0 {
			return false
		}
	}
	return true
}

// IDs returns the ids of records in order.
func IDs(records []Record) []DrawID {
	ids := make([]DrawID, len(records))
	for i, rec := range records {
		ids[i] = rec.DrawID
	}
	return ids
}
