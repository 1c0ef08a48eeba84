package sink

import (
	"encoding/json"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

type jsonOutput struct {
	Width           float64          `json:"width"`
	Height          float64          `json:"height"`
	Config          timeline.Config  `json:"config"`
	First           time.Time        `json:"first"`
	Final           time.Time        `json:"final"`
	TotalSeconds    float64          `json:"total_seconds"`
	HeightPerSecond float64          `json:"height_per_second"`
	MaxRows         int64            `json:"max_rows"`
	Overlaps        int              `json:"overlaps,omitempty"`
	Shapes          []jsonShape      `json:"shapes"`
	Ticks           []jsonTick       `json:"ticks"`
	Lanes           []jsonLaneLabel  `json:"lanes"`
	Legend          []jsonLegendItem `json:"legend"`
}

type jsonShape struct {
	Lane     int             `json:"lane"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Fill     timeline.Color  `json:"fill"`
	Overlaps bool            `json:"overlaps,omitempty"`
	Detail   timeline.Detail `json:"detail"`
}

type jsonTick struct {
	Label string  `json:"label"`
	Y     float64 `json:"y"`
}

type jsonLaneLabel struct {
	Lane  int     `json:"lane"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type jsonLegendItem struct {
	Rows  int64          `json:"rows"`
	Label string         `json:"label"`
	Fill  timeline.Color `json:"fill"`
}

// RenderJSON exports the layout as a pretty-printed JSON document. Shapes
// carry their detail panel text instead of a pointer to the record, so the
// document is self-contained. RenderJSON does not modify l.
func RenderJSON(l *timeline.Layout) ([]byte, error) {
	out := jsonOutput{
		Width:           l.Width,
		Height:          l.Height,
		Config:          l.Config,
		First:           l.First,
		Final:           l.Final,
		TotalSeconds:    l.Total.Seconds(),
		HeightPerSecond: l.HeightPerSecond,
		MaxRows:         l.MaxRows,
		Overlaps:        l.Overlaps,
		Shapes:          make([]jsonShape, len(l.Shapes)),
		Ticks:           make([]jsonTick, len(l.Ticks)),
		Lanes:           make([]jsonLaneLabel, len(l.LaneLabels)),
		Legend:          make([]jsonLegendItem, len(l.Legend)),
	}

	for i, s := range l.Shapes {
		out.Shapes[i] = jsonShape{
			Lane: s.Lane, X: s.X, Y: s.Y, Width: s.Width, Height: s.Height,
			Fill: s.Fill, Overlaps: s.Overlaps, Detail: l.Detail(i),
		}
	}
	for i, t := range l.Ticks {
		out.Ticks[i] = jsonTick{Label: t.Label, Y: t.Y}
	}
	for i, ll := range l.LaneLabels {
		out.Lanes[i] = jsonLaneLabel{Lane: ll.Lane, Label: ll.Label, X: ll.X, Y: ll.Y}
	}
	for i, e := range l.Legend {
		out.Legend[i] = jsonLegendItem{Rows: e.Rows, Label: e.Label, Fill: e.Fill}
	}

	return json.MarshalIndent(out, "", "  ")
}
