package sink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// DefaultTerminalRows is the number of text lines used for the time axis.
const DefaultTerminalRows = 30

const (
	cellFull  = "█"
	cellEmpty = "·"
	swatch    = "■"
)

var styleAxis = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// TerminalOption configures [RenderTerminal].
type TerminalOption func(*terminalRenderer)

type terminalRenderer struct {
	rows   int
	legend bool
}

// WithRows sets the number of text lines the time axis spans.
func WithRows(n int) TerminalOption {
	return func(r *terminalRenderer) {
		if n > 0 {
			r.rows = n
		}
	}
}

// WithoutTerminalLegend omits the legend line.
func WithoutTerminalLegend() TerminalOption {
	return func(r *terminalRenderer) { r.legend = false }
}

// RenderTerminal draws l as a grid of colored cells, one column per lane and
// one line per time slice. When shapes share a cell the later one wins, the
// same stacking order as the SVG.
func RenderTerminal(l *timeline.Layout, opts ...TerminalOption) string {
	r := terminalRenderer{rows: DefaultTerminalRows, legend: true}
	for _, opt := range opts {
		opt(&r)
	}

	lanes := l.Config.LaneCount
	cellWidth := len(strconv.Itoa(lanes-1)) + 1
	labelWidth := len(timeline.TickLabelFormat)
	sliceHeight := l.Height / float64(r.rows)

	var b strings.Builder
	grid := make([]int, lanes)
	for row := 0; row < r.rows; row++ {
		top := float64(row) * sliceHeight
		bottom := top + sliceHeight

		for i := range grid {
			grid[i] = -1
		}
		for i, s := range l.Shapes {
			if occupies(s, top, bottom) {
				grid[s.Lane] = i
			}
		}

		b.WriteString(styleAxis.Render(fmt.Sprintf("%-*s", labelWidth, tickLabel(l.Ticks, top, bottom))))
		b.WriteString(" │")
		for _, idx := range grid {
			if idx < 0 {
				b.WriteString(styleAxis.Render(strings.Repeat(cellEmpty, cellWidth)))
				continue
			}
			fill := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Shapes[idx].Fill.Hex()))
			b.WriteString(fill.Render(strings.Repeat(cellFull, cellWidth)))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", labelWidth+2))
	for _, ll := range l.LaneLabels {
		b.WriteString(fmt.Sprintf("%-*s", cellWidth, ll.Label))
	}
	b.WriteString("\n")

	if r.legend {
		parts := make([]string, len(l.Legend))
		for i, e := range l.Legend {
			sw := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Fill.Hex())).Render(swatch)
			parts[i] = sw + " " + e.Label
		}
		b.WriteString("\n" + strings.Join(parts, "  ") + "\n")
	}
	return b.String()
}

func occupies(s timeline.Shape, top, bottom float64) bool {
	if s.Height == 0 {
		return s.Y >= top && s.Y < bottom
	}
	return s.Y < bottom && s.Y+s.Height > top
}

func tickLabel(ticks []timeline.Tick, top, bottom float64) string {
	for _, t := range ticks {
		if t.Y >= top && t.Y < bottom {
			return t.Label
		}
	}
	return ""
}
