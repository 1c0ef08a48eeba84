package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// Default chart geometry, in pixels unless noted.
const (
	DefaultLaneCount   = 10
	DefaultLaneWidth   = 20.0
	DefaultChartHeight = 150.0
	DefaultAxisOffset  = 25.0
	DefaultTickCount   = 10

	// LegendSteps is the number of legend entries.
	LegendSteps = 5
)

// Config holds the chart geometry and lane policies.
type Config struct {
	LaneCount   int            `json:"lanes" toml:"lanes"`
	LaneWidth   float64        `json:"lane_width" toml:"lane_width"`
	ChartHeight float64        `json:"height" toml:"height"`
	AxisOffset  float64        `json:"axis_offset" toml:"axis_offset"`
	TickCount   int            `json:"ticks" toml:"ticks"`
	Overflow    OverflowPolicy `json:"overflow" toml:"overflow"`
	Selection   LaneSelection  `json:"selection" toml:"selection"`
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy of c with zero-valued geometry replaced by the
// defaults.
func (c Config) WithDefaults() Config {
	if c.LaneCount == 0 {
		c.LaneCount = DefaultLaneCount
	}
	if c.LaneWidth == 0 {
		c.LaneWidth = DefaultLaneWidth
	}
	if c.ChartHeight == 0 {
		c.ChartHeight = DefaultChartHeight
	}
	if c.AxisOffset == 0 {
		c.AxisOffset = DefaultAxisOffset
	}
	if c.TickCount == 0 {
		c.TickCount = DefaultTickCount
	}
	return c
}

// Validate rejects geometry that cannot produce a chart.
func (c Config) Validate() error {
	switch {
	case c.LaneCount < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "lane count must be at least 1, got %d", c.LaneCount)
	case !finite(c.LaneWidth) || c.LaneWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "lane width must be a positive number, got %g", c.LaneWidth)
	case !finite(c.ChartHeight) || c.ChartHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "chart height must be a positive number, got %g", c.ChartHeight)
	case !finite(c.AxisOffset) || c.AxisOffset < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "axis offset must be a non-negative number, got %g", c.AxisOffset)
	case c.TickCount < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "tick count must be at least 1, got %d", c.TickCount)
	}
	if _, ok := overflowNames[c.Overflow]; !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown overflow policy %d", int(c.Overflow))
	}
	if _, ok := selectionNames[c.Selection]; !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown lane selection %d", int(c.Selection))
	}
	return nil
}

// finite reports whether f is neither NaN nor an infinity.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Shape is one positioned, colored interval.
type Shape struct {
	Lane     int
	X, Y     float64
	Width    float64
	Height   float64
	Fill     Color
	Overlaps bool

	// Record points into Layout.Records. It is a read-only association for
	// detail lookups.
	Record *interval.Record
}

// LaneLabel is the index printed under each lane.
type LaneLabel struct {
	Lane  int
	Label string
	X, Y  float64
}

// LegendEntry pairs a representative row count with its color.
type LegendEntry struct {
	Rows  int64
	Label string
	Fill  Color
}

// Layout is the complete, renderer-independent chart description.
type Layout struct {
	Config Config

	// Width and Height are the drawing area, axis gutter included.
	Width, Height float64

	First, Final    time.Time
	Total           time.Duration
	HeightPerSecond float64
	MaxRows         int64

	// Records holds the input sorted by start time; Shapes[i] describes
	// Records[i].
	Records    []interval.Record
	Shapes     []Shape
	Ticks      []Tick
	LaneLabels []LaneLabel
	Legend     []LegendEntry

	// Overlaps counts shapes placed in a busy lane under OverflowOverlap.
	Overlaps int
}

// Build lays out records using cfg. Zero-valued geometry in cfg is replaced
// by the defaults.
//
// Build fails without partial output on an empty dataset (EMPTY_INPUT), a
// zero time span (DEGENERATE_TIME_RANGE), an invalid record
// (INVALID_RECORD) or, under OverflowFail, a lane overflow
// (LANE_CAPACITY_EXCEEDED).
func Build(records []interval.Record, cfg Config) (*Layout, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no records to lay out")
	}
	if err := interval.ValidateAll(records); err != nil {
		return nil, err
	}

	sorted := interval.SortByStart(records)

	axis, err := BuildAxis(sorted, cfg.ChartHeight, cfg.TickCount)
	if err != nil {
		return nil, err
	}

	assignments, err := AssignLanes(sorted, cfg.LaneCount,
		WithOverflow(cfg.Overflow), WithSelection(cfg.Selection))
	if err != nil {
		return nil, err
	}

	maxRows := interval.MaxRows(sorted)
	l := &Layout{
		Config:          cfg,
		Width:           cfg.AxisOffset + float64(cfg.LaneCount)*cfg.LaneWidth,
		Height:          cfg.ChartHeight,
		First:           axis.First,
		Final:           axis.Final,
		Total:           axis.Total,
		HeightPerSecond: axis.HeightPerSecond,
		MaxRows:         maxRows,
		Records:         sorted,
		Shapes:          make([]Shape, len(assignments)),
		Ticks:           axis.Ticks,
		LaneLabels:      laneLabels(cfg),
		Legend:          legend(maxRows),
	}

	for i, a := range assignments {
		rec := &l.Records[i]
		l.Shapes[i] = Shape{
			Lane:     a.Lane,
			X:        cfg.AxisOffset + float64(a.Lane)*cfg.LaneWidth,
			Y:        axis.Y(rec.Start),
			Width:    cfg.LaneWidth,
			Height:   axis.Height(rec.Duration()),
			Fill:     ColorFor(maxRows, rec.Rows),
			Overlaps: a.Overlaps,
			Record:   rec,
		}
		if a.Overlaps {
			l.Overlaps++
		}
	}
	return l, nil
}

func laneLabels(cfg Config) []LaneLabel {
	labels := make([]LaneLabel, cfg.LaneCount)
	for i := range labels {
		labels[i] = LaneLabel{
			Lane:  i,
			Label: fmt.Sprintf("%d", i),
			X:     cfg.AxisOffset + 5 + float64(i)*cfg.LaneWidth,
			Y:     cfg.ChartHeight,
		}
	}
	return labels
}

// LegendRows returns the representative row counts 0, max/4, max/2,
// max/4*3 and max. Integer division happens before the multiplication, so the
// fourth step is not always max*3/4.
func LegendRows(maxRows int64) [LegendSteps]int64 {
	return [LegendSteps]int64{0, maxRows / 4, maxRows / 2, maxRows / 4 * 3, maxRows}
}

func legend(maxRows int64) []LegendEntry {
	steps := LegendRows(maxRows)
	entries := make([]LegendEntry, len(steps))
	for i, rows := range steps {
		entries[i] = LegendEntry{
			Rows:  rows,
			Label: rowsLabel(rows),
			Fill:  ColorFor(maxRows, rows),
		}
	}
	return entries
}

func rowsLabel(rows int64) string {
	if rows == 1 {
		return "1 Row"
	}
	return fmt.Sprintf("%d Rows", rows)
}

// ShapeAt returns the index of the shape under point (x, y). Shapes drawn
// later sit on top, so the last match wins.
func (l *Layout) ShapeAt(x, y float64) (int, bool) {
	for i := len(l.Shapes) - 1; i >= 0; i-- {
		s := l.Shapes[i]
		if x >= s.X && x < s.X+s.Width && y >= s.Y && y <= s.Y+s.Height {
			return i, true
		}
	}
	return -1, false
}

// Detail is the text shown for a hovered or selected shape.
type Detail struct {
	Buyer   string  `json:"buyer"`
	Table   string  `json:"table"`
	Start   string  `json:"start"`
	End     string  `json:"end"`
	Seconds float64 `json:"seconds"`
	Rows    int64   `json:"rows"`
	Lane    int     `json:"lane"`
}

// Detail returns the detail panel content for shape i.
func (l *Layout) Detail(i int) Detail {
	s := l.Shapes[i]
	r := s.Record
	return Detail{
		Buyer:   r.Buyer,
		Table:   r.Table,
		Start:   r.Start.Format(TickLabelFormat),
		End:     r.End.Format(TickLabelFormat),
		Seconds: r.Duration().Seconds(),
		Rows:    r.Rows,
		Lane:    s.Lane,
	}
}
