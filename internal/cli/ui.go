package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
)

// Status lines go to stdout and the spinner to stderr. Tests swap them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh   = lipgloss.NewStyle().Foreground(colorGray)
)

// status is a one-character marker in front of a status line.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = status{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = status{"!", lipgloss.NewStyle().Foreground(colorAmber)}
	statusInfo    = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (s status) print(msg string) {
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	statusSuccess.print(fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	statusError.print(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusWarning.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusInfo.print(fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Chart Summary
// =============================================================================

// printStats prints the chart counts on one line, for example
// "12 loads · 8 lanes · fresh".
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d loads", stats.Records),
		fmt.Sprintf("%d lanes", stats.Lanes),
	}
	if stats.Overlaps > 0 {
		parts = append(parts, fmt.Sprintf("%d overlapping", stats.Overlaps))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}

	origin := styleFresh.Render("fresh")
	if cached {
		origin = styleCached.Render("cached")
	}
	parts = append(parts, origin)

	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printLaneHint warns when loads had to share a busy lane and suggests a
// lane count that would have fit them.
func printLaneHint(stats pipeline.Stats) {
	if stats.Overlaps == 0 {
		return
	}
	printWarning("%d loads share a busy lane; try --lanes %d", stats.Overlaps, stats.Lanes+stats.Overlaps)
}
