package cli

import (
	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// chartFlags holds the chart geometry flags shared by every command that
// builds a layout. Only flags set on the command line override the config
// file.
type chartFlags struct {
	lanes      int
	laneWidth  float64
	height     float64
	axisOffset float64
	ticks      int
	overflow   string
	selection  string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.lanes, "lanes", timeline.DefaultLaneCount, "number of lanes")
	flags.Float64Var(&f.laneWidth, "lane-width", timeline.DefaultLaneWidth, "lane width in pixels")
	flags.Float64Var(&f.height, "height", timeline.DefaultChartHeight, "chart height in pixels")
	flags.Float64Var(&f.axisOffset, "axis-offset", timeline.DefaultAxisOffset, "width of the time axis gutter in pixels")
	flags.IntVar(&f.ticks, "ticks", timeline.DefaultTickCount, "number of time axis ticks")
	flags.StringVar(&f.overflow, "overflow", timeline.OverflowFail.String(), "when every lane is busy: fail, overlap")
	flags.StringVar(&f.selection, "select", timeline.SelectEarliestFree.String(), "lane choice among free lanes: earliest, first")
	registerChartCompletions(cmd)
}

// apply overrides cfg with the flags the user set. An explicit lane count
// below 1 is rejected rather than replaced by the default.
func (f *chartFlags) apply(cmd *cobra.Command, cfg timeline.Config) (timeline.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("lanes") {
		if f.lanes < 1 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "--lanes must be at least 1, got %d", f.lanes)
		}
		cfg.LaneCount = f.lanes
	}
	if flags.Changed("lane-width") {
		cfg.LaneWidth = f.laneWidth
	}
	if flags.Changed("height") {
		cfg.ChartHeight = f.height
	}
	if flags.Changed("axis-offset") {
		cfg.AxisOffset = f.axisOffset
	}
	if flags.Changed("ticks") {
		cfg.TickCount = f.ticks
	}
	if flags.Changed("overflow") {
		p, err := timeline.ParseOverflowPolicy(f.overflow)
		if err != nil {
			return cfg, err
		}
		cfg.Overflow = p
	}
	if flags.Changed("select") {
		s, err := timeline.ParseLaneSelection(f.selection)
		if err != nil {
			return cfg, err
		}
		cfg.Selection = s
	}
	return cfg, cfg.WithDefaults().Validate()
}
