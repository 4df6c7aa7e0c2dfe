package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/diogo/floatchat/internal/models"
)

// MaxCellWidth caps a single cell before truncation
const MaxCellWidth = 28

// TableOptions controls result table rendering
type TableOptions struct {
	Width   int // 0 means unbounded
	MaxRows int // 0 means all rows
	Theme   TUITheme
}

// Table renders tabular results with lipgloss/table. Columns follow the
// first record's key order.
func Table(t models.Table, opts TableOptions) string {
	theme := opts.Theme
	if theme.Name == "" {
		theme = GetTUITheme()
	}

	if t.Headless() {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(t.HeadlessText())
	}
	if t.Empty() {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("No rows returned.")
	}

	rows := t.Rows
	hidden := 0
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		hidden = len(rows) - opts.MaxRows
		rows = rows[:opts.MaxRows]
	}

	headerStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	oddStyle := cellStyle.Foreground(theme.TextDim)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 1:
				return oddStyle
			default:
				return cellStyle
			}
		}).
		Headers(truncateAll(t.Columns)...)

	for _, r := range rows {
		tbl.Row(truncateAll(r)...)
	}
	if opts.Width > 0 {
		tbl.Width(opts.Width)
	}

	out := tbl.String()
	if hidden > 0 {
		out += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("… %d more row(s)", hidden))
	}
	return out
}

// PlainTable renders rows as tab-separated text for pipes
func PlainTable(t models.Table) string {
	if t.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Columns, "\t"))
	sb.WriteString("\n")
	for _, r := range t.Rows {
		sb.WriteString(strings.Join(r, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func truncateAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = Truncate(strings.ReplaceAll(c, "\n", " "), MaxCellWidth)
	}
	return out
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
