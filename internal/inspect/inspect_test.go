package inspect

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

func testLayout(t *testing.T) *timeline.Layout {
	t.Helper()
	at := func(s string) time.Time {
		ts, err := time.Parse(time.DateTime, "2017-01-01 "+s)
		if err != nil {
			t.Fatal(err)
		}
		return ts
	}
	records := []interval.Record{
		{Start: at("10:00:00"), End: at("10:01:00"), Buyer: "b1", Table: "t1", Rows: 5},
		{Start: at("10:00:30"), End: at("10:02:00"), Buyer: "b2", Table: "t2", Rows: 10},
		{Start: at("10:01:30"), End: at("10:02:30"), Buyer: "b3", Table: "t3", Rows: 2},
	}
	l, err := timeline.Build(records, timeline.Config{LaneCount: 2})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return l
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want int
	}{
		{"initial", nil, 0},
		{"down", []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}}, 1},
		{"j twice", []tea.Msg{runes("j"), runes("j")}, 2},
		{"clamped at end", []tea.Msg{runes("j"), runes("j"), runes("j"), runes("j")}, 2},
		{"clamped at start", []tea.Msg{tea.KeyMsg{Type: tea.KeyUp}, runes("k")}, 0},
		{"down then up", []tea.Msg{runes("j"), runes("j"), runes("k")}, 1},
		{"last", []tea.Msg{runes("G")}, 2},
		{"first", []tea.Msg{runes("G"), runes("g")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(New(testLayout(t)), tt.keys...)
			if got := m.Selected(); got != tt.want {
				t.Errorf("Selected() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(k.String(), func(t *testing.T) {
			_, cmd := New(testLayout(t)).Update(k)
			if cmd == nil {
				t.Fatal("Update() returned nil command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("command produced %T, want tea.QuitMsg", cmd())
			}
		})
	}
}

func TestViewShowsSelectedDetail(t *testing.T) {
	m := press(New(testLayout(t)), runes("j"))
	view := m.View()

	for _, want := range []string{"b2", "t2", "10:00:30", "10:02:00", "90s", "10"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if !strings.Contains(view, "[2/3]") {
		t.Error("View() missing position counter [2/3]")
	}
}

func TestWindowResizeScrollsList(t *testing.T) {
	m := press(New(testLayout(t)), tea.WindowSizeMsg{Width: 80, Height: 10})
	if m.height != minListHeight {
		t.Fatalf("height = %d, want %d", m.height, minListHeight)
	}
	if m.help.Width != 80 {
		t.Errorf("help width = %d, want 80", m.help.Width)
	}

	m.height = 1
	m = press(m, runes("G"))
	if m.offset != 2 {
		t.Errorf("offset = %d, want 2 so the last load is visible", m.offset)
	}
	m = press(m, runes("g"))
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0 after jumping to the first load", m.offset)
	}
}

func TestHelpToggle(t *testing.T) {
	m := press(New(testLayout(t)), runes("?"))
	if !m.help.ShowAll {
		t.Error("? should show the full help")
	}
	m = press(m, runes("?"))
	if m.help.ShowAll {
		t.Error("second ? should hide the full help")
	}
}
