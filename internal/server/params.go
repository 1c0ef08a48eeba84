package server

import (
	"net/url"
	"strconv"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// chartParams overrides base with the geometry given in q.
func chartParams(q url.Values, base timeline.Config) (timeline.Config, error) {
	cfg := base
	if err := intParam(q, "lanes", &cfg.LaneCount); err != nil {
		return cfg, err
	}
	if q.Get("lanes") != "" && cfg.LaneCount < 1 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "lanes must be at least 1, got %d", cfg.LaneCount)
	}
	if err := floatParam(q, "lane_width", &cfg.LaneWidth); err != nil {
		return cfg, err
	}
	if err := floatParam(q, "height", &cfg.ChartHeight); err != nil {
		return cfg, err
	}
	if err := floatParam(q, "axis_offset", &cfg.AxisOffset); err != nil {
		return cfg, err
	}
	if err := intParam(q, "ticks", &cfg.TickCount); err != nil {
		return cfg, err
	}
	if v := q.Get("overflow"); v != "" {
		p, err := timeline.ParseOverflowPolicy(v)
		if err != nil {
			return cfg, err
		}
		cfg.Overflow = p
	}
	if v := q.Get("select"); v != "" {
		sel, err := timeline.ParseLaneSelection(v)
		if err != nil {
			return cfg, err
		}
		cfg.Selection = sel
	}
	return cfg, cfg.WithDefaults().Validate()
}

// renderParams reads the chart geometry and the single output format with
// its render options.
func renderParams(q url.Values, base timeline.Config) (pipeline.Options, error) {
	var (
		opts pipeline.Options
		err  error
	)
	if opts.Chart, err = chartParams(q, base); err != nil {
		return opts, err
	}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}
	opts.Title = q.Get("title")

	if err := floatParam(q, "scale", &opts.Scale); err != nil {
		return opts, err
	}
	if err := boolParam(q, "details", &opts.Details); err != nil {
		return opts, err
	}
	if err := boolParam(q, "refresh", &opts.Refresh); err != nil {
		return opts, err
	}
	if q.Has("legend") {
		var legend bool
		if err := boolParam(q, "legend", &legend); err != nil {
			return opts, err
		}
		opts.Legend = &legend
	}
	return opts, opts.Validate()
}

func intParam(q url.Values, name string, dst *int) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	*dst = n
	return nil
}

func floatParam(q url.Values, name string, dst *float64) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, v)
	}
	*dst = f
	return nil
}

func boolParam(q url.Values, name string, dst *bool) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be true or false, got %q", name, v)
	}
	*dst = b
	return nil
}
