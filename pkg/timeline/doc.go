// Package timeline computes lane-based Gantt layouts for work intervals.
//
// # Overview
//
// The layout engine turns a list of [interval.Record] values into a
// [Layout]: positioned, colored rectangles plus axis annotations that any
// drawing backend can consume. It is made of four parts:
//
//   - [AssignLanes] places every interval in one of a fixed number of
//     parallel lanes, reusing a lane once its previous interval has ended.
//   - [BuildAxis] maps the dataset's time range onto a pixel height and
//     produces evenly spaced tick marks.
//   - [ColorFor] maps a row count to a traffic-light hue: small loads are
//     green, the largest load is red.
//   - [Build] orchestrates the three and emits shapes, ticks, lane labels
//     and a five step legend.
//
// # Lane Assignment
//
// Records are processed in start order. Each lane remembers the instant at
// which it becomes free. A record goes to the lane that became free the
// earliest, as long as that instant is not after the record's start; ties go
// to the lowest lane index. [SelectFirstFree] picks the lowest-index free lane
// instead, which reproduces older chart output.
//
// When every lane is still busy the behavior depends on [OverflowPolicy]:
// [OverflowFail] reports LANE_CAPACITY_EXCEEDED with a [*CapacityError]
// attached, [OverflowOverlap] reuses the lane that frees up soonest and marks
// the shape as overlapping.
//
// # Precision
//
// All time arithmetic uses [time.Time] and [time.Duration] (integer
// nanoseconds). Floating point only appears when converting to pixels, so lane
// free/busy decisions never depend on rounding.
//
// # Concurrency
//
// Build holds no shared state. Each call allocates its own lane state and
// returns a fresh Layout, so concurrent calls need no synchronization.
//
// # Usage
//
//	l, err := timeline.Build(records, timeline.DefaultConfig())
//	if errors.Is(err, errors.ErrCodeLaneCapacityExceeded) {
//	    // retry with more lanes or OverflowOverlap
//	}
//	for _, s := range l.Shapes {
//	    fmt.Println(s.Lane, s.Y, s.Height, s.Fill.Hex())
//	}
package timeline
