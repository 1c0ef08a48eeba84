// Package inspect is an interactive terminal viewer for a chart layout.
//
// It lists every load in start order next to the terminal chart and shows the
// details of the selected one: buyer, table, start and end times, duration,
// row count and lane.
package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline/sink"
)

const (
	defaultListHeight = 15
	minListHeight     = 5

	// chrome is the number of lines taken by the title, detail panel and
	// help below the list.
	chrome = 14
)

var (
	colorCyan = lipgloss.Color("36")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(9)
	stylePanel    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "previous load")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "next load")),
	Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Help, k.Quit},
	}
}

// Model is the bubbletea model of the viewer.
type Model struct {
	layout *timeline.Layout

	cursor int
	offset int
	height int // visible list lines

	help help.Model
}

// New returns a viewer for l with the first load selected.
func New(l *timeline.Layout) Model {
	return Model{
		layout: l,
		height: defaultListHeight,
		help:   help.New(),
	}
}

// Selected returns the index of the selected shape.
func (m Model) Selected() int { return m.cursor }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.moveTo(m.cursor - 1)
		case key.Matches(msg, keys.Down):
			m.moveTo(m.cursor + 1)
		case key.Matches(msg, keys.Top):
			m.moveTo(0)
		case key.Matches(msg, keys.Bottom):
			m.moveTo(len(m.layout.Shapes) - 1)
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.height = max(msg.Height-chrome, minListHeight)
		m.moveTo(m.cursor)
	}
	return m, nil
}

// moveTo selects shape i, clamped to the valid range, and scrolls the list
// so it stays visible.
func (m *Model) moveTo(i int) {
	n := len(m.layout.Shapes)
	m.cursor = max(0, min(i, n-1))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Loads"))
	b.WriteString(styleDim.Render(fmt.Sprintf("  %s to %s, %d lanes",
		m.layout.First.Format(timeline.TickLabelFormat),
		m.layout.Final.Format(timeline.TickLabelFormat),
		m.layout.Config.LaneCount)))
	b.WriteString("\n\n")

	chart := sink.RenderTerminal(m.layout, sink.WithRows(m.height), sink.WithoutTerminalLegend())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), "  ", chart))
	b.WriteString("\n")

	if len(m.layout.Shapes) > 0 {
		b.WriteString(m.detailView())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) listView() string {
	var b strings.Builder
	end := min(m.offset+m.height, len(m.layout.Shapes))
	for i := m.offset; i < end; i++ {
		s := m.layout.Shapes[i]
		line := fmt.Sprintf("%s %-2d %s/%s",
			s.Record.Start.Format(timeline.TickLabelFormat), s.Lane, s.Record.Buyer, s.Record.Table)
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Fill.Hex())).Render("■")
		if i == m.cursor {
			b.WriteString(swatch + " " + styleSelected.Render("▸ "+line))
		} else {
			b.WriteString(swatch + "   " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(styleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.layout.Shapes))))
	return b.String()
}

func (m Model) detailView() string {
	d := m.layout.Detail(m.cursor)
	rows := [][2]string{
		{"Buyer", d.Buyer},
		{"Table", d.Table},
		{"Start", d.Start},
		{"End", d.End},
		{"Duration", fmt.Sprintf("%gs", d.Seconds)},
		{"Rows", fmt.Sprintf("%d", d.Rows)},
		{"Lane", fmt.Sprintf("%d", d.Lane)},
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = styleKey.Render(r[0]) + r[1]
	}
	if m.layout.Shapes[m.cursor].Overlaps {
		lines = append(lines, styleDim.Render("shares its lane with another load"))
	}
	return stylePanel.Render(strings.Join(lines, "\n"))
}

// Run shows the viewer until the user quits or ctx is cancelled.
func Run(ctx context.Context, l *timeline.Layout) error {
	_, err := tea.NewProgram(New(l), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
