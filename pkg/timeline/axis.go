package timeline

import (
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// TickLabelFormat is the time-of-day layout used for tick labels.
const TickLabelFormat = "15:04:05"

// Tick is one mark on the vertical time axis.
type Tick struct {
	Offset time.Duration // distance from Axis.First
	Time   time.Time
	Label  string
	Y      float64
}

// Axis maps the dataset's time range onto a pixel height.
type Axis struct {
	First           time.Time
	Final           time.Time
	Total           time.Duration
	PixelHeight     float64
	HeightPerSecond float64
	Ticks           []Tick
}

// BuildAxis spans the earliest start to the latest end of records over
// pixelHeight pixels and places tickCount evenly spaced ticks, the first one
// at the earliest start.
//
// It fails with EMPTY_INPUT when records is empty and with
// DEGENERATE_TIME_RANGE when the span is zero, since no finite scale exists.
func BuildAxis(records []interval.Record, pixelHeight float64, tickCount int) (Axis, error) {
	if !finite(pixelHeight) || pixelHeight <= 0 {
		return Axis{}, errors.New(errors.ErrCodeInvalidConfig, "chart height must be a positive number, got %g", pixelHeight)
	}
	if tickCount < 0 {
		return Axis{}, errors.New(errors.ErrCodeInvalidConfig, "tick count must not be negative, got %d", tickCount)
	}

	first, final, ok := interval.Span(records)
	if !ok {
		return Axis{}, errors.New(errors.ErrCodeEmptyInput, "no records to lay out")
	}
	total := final.Sub(first)
	if total <= 0 {
		return Axis{}, errors.New(errors.ErrCodeDegenerateTimeRange,
			"all %d records start and end at %s; the time range is empty", len(records), first.Format(time.DateTime))
	}

	a := Axis{
		First:           first,
		Final:           final,
		Total:           total,
		PixelHeight:     pixelHeight,
		HeightPerSecond: pixelHeight / total.Seconds(),
	}

	if tickCount > 0 {
		step := total / time.Duration(tickCount)
		a.Ticks = make([]Tick, tickCount)
		for i := range a.Ticks {
			offset := step * time.Duration(i)
			t := first.Add(offset)
			a.Ticks[i] = Tick{
				Offset: offset,
				Time:   t,
				Label:  t.Format(TickLabelFormat),
				Y:      a.Height(offset),
			}
		}
	}
	return a, nil
}

// Y returns the vertical pixel position of instant t.
func (a Axis) Y(t time.Time) float64 {
	return a.Height(t.Sub(a.First))
}

// Height returns the pixel height of duration d.
func (a Axis) Height(d time.Duration) float64 {
	return d.Seconds() * a.HeightPerSecond
}
