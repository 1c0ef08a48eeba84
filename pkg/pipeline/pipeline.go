// Package pipeline runs the load → layout → render sequence shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read records from a [source.Source]
//  2. Layout: place them with [timeline.Build]
//  3. Render: produce every requested format, concurrently, reusing cached
//     artifacts where the dataset, chart geometry and format all match
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, source.NewFile("loads.csv"), pipeline.Options{
//	    Chart:   timeline.Config{LaneCount: 12},
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/cache"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline/sink"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// Options configures a pipeline run. It can be decoded from a JSON request.
type Options struct {
	Chart timeline.Config `json:"chart"`

	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG only
	Title   string   `json:"title,omitempty"`
	Details bool     `json:"details,omitempty"`
	Legend  *bool    `json:"legend,omitempty"` // nil means true

	// Refresh skips cache reads; fresh artifacts are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	o.Chart = o.Chart.WithDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = sink.DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies the defaults and checks every field.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := o.Chart.Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be a positive number, got %g", o.Scale)
	}
	return nil
}

// ShowLegend reports whether the legend is drawn.
func (o *Options) ShowLegend() bool {
	return o.Legend == nil || *o.Legend
}

// ArtifactKeyOpts returns the cache key options of format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Chart:   o.Chart,
		Format:  format,
		Title:   o.Title,
		Details: o.Details,
		Legend:  o.ShowLegend(),
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func (o *Options) svgOptions() []sink.SVGOption {
	var opts []sink.SVGOption
	if o.Title != "" {
		opts = append(opts, sink.WithTitle(o.Title))
	}
	if o.Details {
		opts = append(opts, sink.WithDetails())
	}
	if !o.ShowLegend() {
		opts = append(opts, sink.WithoutLegend())
	}
	return opts
}

// ValidateFormat checks that format is supported. Formats are
// case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, dropping blanks and
// duplicates. An empty string yields svg.
func ParseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f != "" && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []string{FormatSVG}
	}
	return formats
}

// Result holds the outputs of a run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID uuid.UUID

	// DatasetHash fingerprints the input records.
	DatasetHash string

	Layout    *timeline.Layout
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and stage timings.
type Stats struct {
	Records    int
	Lanes      int
	Overlaps   int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo lists which formats came from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// RenderHit reports whether every artifact came from the cache.
func (c CacheInfo) RenderHit() bool {
	return len(c.Hits) > 0 && len(c.Misses) == 0
}
