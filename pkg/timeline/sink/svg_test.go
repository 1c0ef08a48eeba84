package sink

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

func wellFormed(t *testing.T, svg []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, svg)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	l := scenarioLayout(t)
	svg := RenderSVG(l, WithTitle("loads"))
	wellFormed(t, svg)
	out := string(svg)

	if n := strings.Count(out, `class="shape"`); n != 3 {
		t.Errorf("shape count = %d, want 3", n)
	}
	for _, want := range []string{
		`viewBox="0 0 165.0 165.0"`,
		`<title>loads</title>`,
		`id="shape-0" x="25.00" y="0.00" width="20.00" height="60.00" fill="#ffff00"`,
		`id="shape-1" x="45.00" y="30.00" width="20.00" height="90.00" fill="#ff0000"`,
		`data-buyer="R3" data-table="TR3"`,
		`data-start="10:01:30" data-end="10:02:30" data-seconds="60" data-rows="2"`,
		`>10:00:00</text>`,
		`>10:02:15</text>`,
		`class="lane" x="50.00" y="150.00"`,
		`>0 Rows</text>`,
		`>6 Rows</text>`,
		`>10 Rows</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(out, "<script") {
		t.Error("SVG has a script without WithDetails")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := scenarioLayout(t)

	tests := []struct {
		name    string
		opts    []SVGOption
		viewBox string
		has     []string
		hasNot  []string
	}{
		{
			name:    "bare",
			opts:    []SVGOption{WithoutLegend()},
			viewBox: `viewBox="0 0 65.0 165.0"`,
			hasNot:  []string{`class="legend"`, "<script", "<title>loads"},
		},
		{
			name:    "details",
			opts:    []SVGOption{WithDetails()},
			viewBox: `viewBox="0 0 165.0 165.0"`,
			has:     []string{`<tspan id="detail-buyer">`, `<tspan id="detail-rows">`, "<script", "<style>", `class="legend"`},
		},
		{
			name:    "details without legend",
			opts:    []SVGOption{WithDetails(), WithoutLegend()},
			viewBox: `viewBox="0 0 165.0 165.0"`,
			has:     []string{`<tspan id="detail-seconds">`},
			hasNot:  []string{`class="legend"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := RenderSVG(l, tt.opts...)
			wellFormed(t, svg)
			out := string(svg)
			if !strings.Contains(out, tt.viewBox) {
				t.Errorf("SVG missing %s", tt.viewBox)
			}
			for _, s := range tt.has {
				if !strings.Contains(out, s) {
					t.Errorf("SVG missing %q", s)
				}
			}
			for _, s := range tt.hasNot {
				if strings.Contains(out, s) {
					t.Errorf("SVG unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	records := []interval.Record{
		{Start: at("09:00:00"), End: at("09:00:10"), Buyer: `A&B <"co">`, Table: "t<1>", Rows: 1},
	}
	l, err := timeline.Build(records, timeline.Config{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	svg := RenderSVG(l, WithTitle("a < b"), WithDetails())
	wellFormed(t, svg)
	if strings.Contains(string(svg), "<1>") {
		t.Error("table name was not escaped")
	}
}

func TestRenderSVGDoesNotModifyLayout(t *testing.T) {
	l := scenarioLayout(t)
	before := *l
	shapes := append([]timeline.Shape(nil), l.Shapes...)

	RenderSVG(l, WithDetails())

	if l.Width != before.Width || l.Height != before.Height || len(l.Shapes) != len(shapes) {
		t.Fatal("RenderSVG changed the layout size")
	}
	for i := range shapes {
		if l.Shapes[i] != shapes[i] {
			t.Errorf("Shapes[%d] changed", i)
		}
	}
}
