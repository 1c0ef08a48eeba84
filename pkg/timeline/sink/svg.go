package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

const (
	labelFontSize = 6.0
	tickLength    = 5.0
	strokeWidth   = 0.1
	tickStroke    = 0.2

	// topMargin keeps the first tick label, drawn one pixel above its tick,
	// inside the viewBox.
	topMargin    = 5.0
	bottomMargin = 10.0

	panelGap         = 10.0
	panelWidth       = 90.0
	panelLineSpacing = 8.0
)

const detailCSS = `
    .shape { transition: stroke-width 0.1s ease; }
    .shape.highlight { stroke-width: 0.8; }`

const detailJS = `
    const fields = ['buyer', 'table', 'start', 'end', 'seconds', 'rows'];
    document.querySelectorAll('.shape').forEach(el => {
      el.addEventListener('mouseenter', () => {
        document.querySelectorAll('.shape').forEach(s => s.classList.remove('highlight'));
        el.classList.add('highlight');
        fields.forEach(f => {
          const out = document.getElementById('detail-' + f);
          if (out) out.textContent = el.dataset[f] + (f === 'seconds' ? 's' : '');
        });
      });
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title   string
	details bool
	legend  bool
}

// WithTitle sets the document <title>.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithDetails adds the hover detail panel and its script.
func WithDetails() SVGOption { return func(r *svgRenderer) { r.details = true } }

// WithoutLegend omits the row count legend.
func WithoutLegend() SVGOption { return func(r *svgRenderer) { r.legend = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{legend: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders l as a standalone SVG document.
func RenderSVG(l *timeline.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	width, height := r.dimensions(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		width, height, width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}

	fmt.Fprintf(&buf, `  <g transform="translate(0, %.1f)">`+"\n", topMargin)
	renderShapes(&buf, l)
	renderTicks(&buf, l)
	renderLaneLabels(&buf, l)
	if r.legend {
		renderLegend(&buf, l)
	}
	if r.details {
		renderDetailPanel(&buf, l, r.legend)
	}
	buf.WriteString("  </g>\n")

	if r.details {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", detailCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", detailJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) dimensions(l *timeline.Layout) (width, height float64) {
	width = l.Width
	if r.legend || r.details {
		width += panelGap + panelWidth
	}
	height = topMargin + l.Height + bottomMargin
	if r.legend && r.details {
		panel := float64(len(l.Legend)+8) * panelLineSpacing
		height = max(height, topMargin+panel)
	}
	return width, height
}

func renderShapes(buf *bytes.Buffer, l *timeline.Layout) {
	for i, s := range l.Shapes {
		d := l.Detail(i)
		fmt.Fprintf(buf, `    <rect class="shape" id="shape-%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="black" stroke-width="%.1f"`,
			i, s.X, s.Y, s.Width, s.Height, s.Fill.Hex(), strokeWidth)
		fmt.Fprintf(buf, ` data-lane="%d" data-buyer="%s" data-table="%s" data-start="%s" data-end="%s" data-seconds="%g" data-rows="%d">`,
			s.Lane, escapeXML(d.Buyer), escapeXML(d.Table), d.Start, d.End, d.Seconds, d.Rows)
		fmt.Fprintf(buf, "<title>%s / %s: %s-%s, %d rows</title></rect>\n",
			escapeXML(d.Buyer), escapeXML(d.Table), d.Start, d.End, d.Rows)
	}
}

func renderTicks(buf *bytes.Buffer, l *timeline.Layout) {
	x2 := l.Config.AxisOffset
	x1 := x2 - tickLength
	for _, t := range l.Ticks {
		y := t.Y - 1
		fmt.Fprintf(buf, `    <text class="tick" x="2" y="%.2f" font-size="%.0f" dominant-baseline="hanging">%s</text>`+"\n",
			y, labelFontSize, t.Label)
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="black" stroke-width="%.1f"/>`+"\n",
			x2, y, x1, y, tickStroke)
	}
}

func renderLaneLabels(buf *bytes.Buffer, l *timeline.Layout) {
	for _, ll := range l.LaneLabels {
		fmt.Fprintf(buf, `    <text class="lane" x="%.2f" y="%.2f" font-size="%.0f" dominant-baseline="hanging">%s</text>`+"\n",
			ll.X, ll.Y, labelFontSize, ll.Label)
	}
}

func renderLegend(buf *bytes.Buffer, l *timeline.Layout) {
	x := l.Width + panelGap
	for i, e := range l.Legend {
		fmt.Fprintf(buf, `    <text class="legend" x="%.2f" y="%.2f" font-size="%.0f" fill="%s" stroke="black" stroke-width="0.05">%s</text>`+"\n",
			x, float64(i+1)*panelLineSpacing, labelFontSize, e.Fill.Hex(), escapeXML(e.Label))
	}
}

var detailFields = []string{"buyer", "table", "start", "end", "seconds", "rows"}

func renderDetailPanel(buf *bytes.Buffer, l *timeline.Layout, belowLegend bool) {
	x := l.Width + panelGap
	top := 0.0
	if belowLegend {
		top = float64(len(l.Legend)+1) * panelLineSpacing
	}
	for i, f := range detailFields {
		y := top + float64(i+1)*panelLineSpacing
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%.0f">%s: <tspan id="detail-%s"></tspan></text>`+"\n",
			x, y, labelFontSize, f, f)
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
