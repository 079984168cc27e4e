package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - accepted, success
	colorYellow = lipgloss.Color("220") // Amber - warnings, current edge
	colorRed    = lipgloss.Color("167") // Soft red - rejected, errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages and accepted edges.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for rejected edges.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCurrent = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess  = "✓"
	iconError    = "✗"
	iconWarning  = "!"
	iconInfo     = "›"
	iconArrow    = "→"
	iconPending  = "·"
	iconCached   = "cached"
	iconFresh    = "fresh"
	iconComplete = "complete"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints graph size and cache status on a single line.
func printStats(w io.Writer, vertices, edges int, cached bool) {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d vertices", vertices)),
		StyleDim.Render(fmt.Sprintf("%d edges", edges)),
		statusStyle.Render(status),
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printLines prints narration lines, styling headings.
func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		switch {
		case line == "":
			fmt.Fprintln(w)
		case strings.HasPrefix(line, "• "), strings.HasPrefix(line, "  "):
			fmt.Fprintln(w, "  "+line)
		default:
			fmt.Fprintln(w, StyleTitle.Render(line))
		}
	}
}

// =============================================================================
// Tables
// =============================================================================

// newTable returns a rounded table with the shared header style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...)
}

// formatWeight prints weights without trailing zeros.
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}

// edgeLabel joins the endpoints of an edge for display.
func edgeLabel(from, to string) string {
	return from + " " + iconArrow + " " + to
}

// statusLabel renders an edge status with its icon.
func statusLabel(s kruskal.Status) string {
	switch s {
	case kruskal.StatusAccepted:
		return StyleSuccess.Render(iconSuccess + " accepted")
	case kruskal.StatusRejected:
		return StyleError.Render(iconError + " rejected")
	default:
		return StyleDim.Render(iconPending + " pending")
	}
}

// decisionTable renders decisions as #, edge, weight, outcome and running total.
func decisionTable(decisions []kruskal.Decision[string]) string {
	rows := make([][]string, len(decisions))
	for i, d := range decisions {
		status := kruskal.StatusRejected
		if d.Accepted {
			status = kruskal.StatusAccepted
		}
		rows[i] = []string{
			strconv.Itoa(d.Index + 1),
			edgeLabel(d.Edge.From, d.Edge.To),
			formatWeight(d.Edge.Weight),
			statusLabel(status),
			formatWeight(d.TotalWeight),
		}
	}
	return newTable("#", "Edge", "Weight", "Outcome", "Total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 || col == 2 || col == 4 {
				return lipgloss.NewStyle().Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// sequenceTable renders the sorted edge sequence of e, showing at most
// window rows around the cursor. window <= 0 shows everything.
func sequenceTable(e *kruskal.Engine[string], window int) string {
	edges := e.Edges()
	start, end := 0, len(edges)
	if window > 0 && len(edges) > window {
		start = max(0, e.Cursor()-window/2)
		end = min(len(edges), start+window)
		start = max(0, end-window)
	}
	current := e.Cursor() - 1

	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		marker := " "
		if i == current {
			marker = iconArrow
		}
		rows = append(rows, []string{
			marker,
			strconv.Itoa(i + 1),
			edgeLabel(edges[i].From, edges[i].To),
			formatWeight(edges[i].Weight),
			statusLabel(e.Status(i)),
		})
	}
	return newTable("", "#", "Edge", "Weight", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if start+row == current && col < 4 {
				return styleCurrent
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
