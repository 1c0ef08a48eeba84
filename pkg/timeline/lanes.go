package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// OverflowPolicy decides what happens when a record starts while every lane
// is still occupied.
type OverflowPolicy int

const (
	// OverflowFail rejects the dataset with LANE_CAPACITY_EXCEEDED.
	OverflowFail OverflowPolicy = iota
	// OverflowOverlap puts the record in the lane that frees up soonest and
	// flags the assignment as overlapping.
	OverflowOverlap
)

var overflowNames = map[OverflowPolicy]string{
	OverflowFail:    "fail",
	OverflowOverlap: "overlap",
}

func (p OverflowPolicy) String() string {
	if s, ok := overflowNames[p]; ok {
		return s
	}
	return fmt.Sprintf("OverflowPolicy(%d)", int(p))
}

// ParseOverflowPolicy parses "fail" or "overlap".
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	for p, name := range overflowNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid overflow policy: %q (must be 'fail' or 'overlap')", s)
}

func (p OverflowPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *OverflowPolicy) UnmarshalText(b []byte) error {
	v, err := ParseOverflowPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// LaneSelection decides which free lane a record goes to.
type LaneSelection int

const (
	// SelectEarliestFree picks the lane whose free-at instant is the
	// earliest, lowest index on ties.
	SelectEarliestFree LaneSelection = iota
	// SelectFirstFree picks the lowest-index lane that is free.
	SelectFirstFree
)

var selectionNames = map[LaneSelection]string{
	SelectEarliestFree: "earliest",
	SelectFirstFree:    "first",
}

func (s LaneSelection) String() string {
	if name, ok := selectionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("LaneSelection(%d)", int(s))
}

// ParseLaneSelection parses "earliest" or "first".
func ParseLaneSelection(s string) (LaneSelection, error) {
	for sel, name := range selectionNames {
		if strings.EqualFold(s, name) {
			return sel, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid lane selection: %q (must be 'earliest' or 'first')", s)
}

func (s LaneSelection) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *LaneSelection) UnmarshalText(b []byte) error {
	v, err := ParseLaneSelection(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Assignment pairs a record with the lane it was placed in.
type Assignment struct {
	Record   interval.Record
	Lane     int
	Overlaps bool // set only under OverflowOverlap
}

// CapacityError describes the first record that found every lane busy.
type CapacityError struct {
	Index    int             // position of the record in the sorted input
	Record   interval.Record // the record that could not be placed
	Lanes    int             // configured lane count
	NextFree time.Time       // earliest instant any lane becomes free
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s/%s starts at %s but all %d lanes are busy until %s",
		e.Record.Buyer, e.Record.Table,
		e.Record.Start.Format(TickLabelFormat), e.Lanes,
		e.NextFree.Format(TickLabelFormat))
}

// LaneOption configures [AssignLanes].
type LaneOption func(*laneAssigner)

// WithOverflow sets the overflow policy (default [OverflowFail]).
func WithOverflow(p OverflowPolicy) LaneOption {
	return func(a *laneAssigner) { a.overflow = p }
}

// WithSelection sets the lane selection strategy (default [SelectEarliestFree]).
func WithSelection(s LaneSelection) LaneOption {
	return func(a *laneAssigner) { a.selection = s }
}

type laneAssigner struct {
	overflow  OverflowPolicy
	selection LaneSelection
	freeAt    []time.Time
}

// AssignLanes places each record in one of laneCount lanes. Records must be
// in non-decreasing start order. The result has one entry per record, in
// input order.
func AssignLanes(records []interval.Record, laneCount int, opts ...LaneOption) ([]Assignment, error) {
	if laneCount < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "lane count must be at least 1, got %d", laneCount)
	}
	if len(records) == 0 {
		return nil, nil
	}

	a := &laneAssigner{freeAt: make([]time.Time, laneCount)}
	for _, opt := range opts {
		opt(a)
	}
	// Records are sorted, so the first start is free-since-epoch for every lane.
	for i := range a.freeAt {
		a.freeAt[i] = records[0].Start
	}

	out := make([]Assignment, len(records))
	for i, r := range records {
		if i > 0 && r.Start.Before(records[i-1].Start) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"records must be sorted by start time (record %d starts before record %d)", i, i-1)
		}

		lane := a.pick(r.Start)
		overlaps := false
		if lane < 0 {
			soonest := a.soonest()
			if a.overflow != OverflowOverlap {
				return nil, errors.Wrap(errors.ErrCodeLaneCapacityExceeded, &CapacityError{
					Index:    i,
					Record:   r,
					Lanes:    laneCount,
					NextFree: a.freeAt[soonest],
				}, "record %d does not fit in %d lanes", i, laneCount)
			}
			lane, overlaps = soonest, true
		}

		a.freeAt[lane] = r.End
		out[i] = Assignment{Record: r, Lane: lane, Overlaps: overlaps}
	}
	return out, nil
}

// pick returns the lane to use for a record starting at start, or -1 when
// every lane is busy.
func (a *laneAssigner) pick(start time.Time) int {
	best := -1
	for i, free := range a.freeAt {
		if free.After(start) {
			continue
		}
		if a.selection == SelectFirstFree {
			return i
		}
		if best < 0 || free.Before(a.freeAt[best]) {
			best = i
		}
	}
	return best
}

// soonest returns the lane with the earliest free-at instant, busy or not.
func (a *laneAssigner) soonest() int {
	best := 0
	for i, free := range a.freeAt[1:] {
		if free.Before(a.freeAt[best]) {
			best = i + 1
		}
	}
	return best
}
