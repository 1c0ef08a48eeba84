// Package interval defines the work interval record consumed by the timeline
// layout engine.
//
// A [Record] describes one load of a table on behalf of a buyer: when it
// started, when it finished and how many rows it moved. Records are plain
// values with no identity beyond equality. They are produced by an ingestion
// collaborator (see pkg/io and pkg/source) and live for a single rendering
// pass.
package interval

import (
	"cmp"
	"slices"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
)

// Record is a single validated work interval.
type Record struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Buyer string    `json:"buyer"`
	Table string    `json:"table"`
	Rows  int64     `json:"rows"`
}

// Duration returns how long the interval ran.
func (r Record) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Validate checks the record invariants: End is not before Start, Rows is
// non-negative and both labels are present.
func (r Record) Validate() error {
	switch {
	case r.End.Before(r.Start):
		return errors.New(errors.ErrCodeInvalidRecord,
			"%s/%s ends at %s before it starts at %s", r.Buyer, r.Table,
			r.End.Format(time.DateTime), r.Start.Format(time.DateTime))
	case r.Rows < 0:
		return errors.New(errors.ErrCodeInvalidRecord,
			"%s/%s has a negative row count (%d)", r.Buyer, r.Table, r.Rows)
	case r.Buyer == "":
		return errors.New(errors.ErrCodeInvalidRecord, "record starting %s has no buyer",
			r.Start.Format(time.DateTime))
	case r.Table == "":
		return errors.New(errors.ErrCodeInvalidRecord, "record starting %s has no table",
			r.Start.Format(time.DateTime))
	}
	return nil
}

// ValidateAll validates every record and reports the first failure with its
// zero-based position.
func ValidateAll(records []Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
		}
	}
	return nil
}

// SortByStart returns a copy of records ordered by start time. Records that
// start at the same instant keep their input order.
func SortByStart(records []Record) []Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return a.Start.Compare(b.Start)
	})
	return sorted
}

// Span returns the earliest start and the latest end across records.
// ok is false when records is empty.
func Span(records []Record) (first, final time.Time, ok bool) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, final = records[0].Start, records[0].End
	for _, r := range records[1:] {
		if r.Start.Before(first) {
			first = r.Start
		}
		if r.End.After(final) {
			final = r.End
		}
	}
	return first, final, true
}

// MaxRows returns the largest row count, or 0 for an empty slice.
func MaxRows(records []Record) int64 {
	if len(records) == 0 {
		return 0
	}
	return slices.MaxFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Rows, b.Rows)
	}).Rows
}
