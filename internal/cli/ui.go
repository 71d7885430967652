package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stowage/pkg/annotate"
	"github.com/matzehuels/stowage/pkg/diag"
	"github.com/matzehuels/stowage/pkg/geom"
	"github.com/matzehuels/stowage/pkg/layout"
)

// stdout receives all user-facing output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors, overlaps
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

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleOverlap marks boxes involved in an overlap.
	StyleOverlap = lipgloss.NewStyle().Foreground(colorRed)
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

	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output file line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Layout Summaries
// =============================================================================

// printStats prints layout statistics on a single line.
func printStats(s layout.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d placed", s.Placed),
	}
	if s.Dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped", s.Dropped))
	}
	if s.Overlaps > 0 {
		parts = append(parts, StyleOverlap.Render(fmt.Sprintf("%d overlaps", s.Overlaps)))
	}
	parts = append(parts, fmt.Sprintf("fill %.1f%%", s.FillRatio*100))

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	fmt.Fprintln(stdout, b.String())
}

// printCoerced lists input fields that were replaced by defaults.
func printCoerced(err error) {
	if err == nil {
		return
	}
	printWarning("Some input values were replaced by defaults")
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			printDetail("%s", line)
		}
	}
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss passes for the header.
const headerRow = -1

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder)
}

// boxTable renders placed boxes. Overlapping rows are highlighted.
func boxTable(boxes []layout.Box) string {
	rows := make([][]string, len(boxes))
	for i, b := range boxes {
		rows[i] = []string{
			strconv.Itoa(i),
			b.Name,
			strconv.Itoa(b.Instance),
			formatPoint(b.Origin),
			formatDims(b.Dims),
			b.Color,
		}
	}
	return newTable().
		Headers("#", "Name", "Copy", "Origin (m)", "L×W×H (m)", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleTableHeader
			}
			if row >= 0 && row < len(boxes) && boxes[row].Overlapping {
				return StyleOverlap
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// overlapTable renders overlap pairs.
func overlapTable(pairs []diag.Pair) string {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{
			fmt.Sprintf("%d %s", p.A, p.NameA),
			fmt.Sprintf("%d %s", p.B, p.NameB),
			formatPoint(p.Extent),
		}
	}
	return newTable().
		Headers("Box A", "Box B", "Extent (scene)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleTableHeader
			}
			return StyleOverlap
		}).
		Render()
}

// annotationTable renders dimension markers.
func annotationTable(notes []annotate.Annotation) string {
	rows := make([][]string, len(notes))
	for i, a := range notes {
		rows[i] = []string{string(a.Axis), a.Text, formatPoint(a.Start), formatPoint(a.End), formatPoint(a.Anchor)}
	}
	return newTable().
		Headers("Axis", "Label", "Start", "End", "Anchor").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleTableHeader
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func formatPoint(p geom.Point3) string {
	return fmt.Sprintf("%.3f, %.3f, %.3f", p.X, p.Y, p.Z)
}

func formatDims(d geom.Dims) string {
	return fmt.Sprintf("%.3f × %.3f × %.3f", d.Length, d.Width, d.Height)
}
