package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the enterprise name.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders names and ids inside messages.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Status Output
// =============================================================================

// stdout receives status lines; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// marker is the leading glyph of a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (m marker) println(msg string) {
	fmt.Fprintln(stdout, m.style.Render(m.glyph)+" "+msg)
}

func printSuccess(format string, args ...any) { markSuccess.println(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { markError.println(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { markInfo.println(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	markWarning.println(markWarning.style.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented dim line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printNextStep suggests a command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Hierarchy Summaries
// =============================================================================

// countKinds lists every level below the enterprise, top down.
var countKinds = []hierarchy.Kind{
	hierarchy.KindRegion,
	hierarchy.KindPlant,
	hierarchy.KindArea,
	hierarchy.KindLocation,
	hierarchy.KindEquipment,
}

// summary formats node counts on a single line, e.g.
// "3 regions · 8 plants · 47 nodes".
func summary(counts map[hierarchy.Kind]int) string {
	var parts []string
	total := 0
	for _, k := range countKinds {
		n := counts[k]
		total += n
		if n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(k.String(), n)))
	}
	parts = append(parts, fmt.Sprintf("%d %s", total, plural("node", total)))
	return strings.Join(parts, " · ")
}

func plural(word string, n int) string {
	if n == 1 || strings.HasSuffix(word, "equipment") {
		return word
	}
	return word + "s"
}

// printSummary prints node counts of e on a single dim line.
func printSummary(e *hierarchy.Enterprise) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(summary(hierarchy.Count(e))))
}

// regionTable renders one row per region with its plant and equipment
// counts.
func regionTable(e *hierarchy.Enterprise) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(e.Regions))
	for _, r := range e.Regions {
		equipment := 0
		hierarchy.Walk(&hierarchy.Enterprise{Regions: []hierarchy.Region{r}}, func(n hierarchy.Node, _ []hierarchy.Node) bool {
			if n.Kind() == hierarchy.KindEquipment {
				equipment++
			}
			return true
		})
		rows = append(rows, []string{r.Name, string(r.Code), fmt.Sprint(len(r.Plants)), fmt.Sprint(equipment)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Region", "Code", "Plants", "Equipment").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
