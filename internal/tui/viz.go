package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/floatchat/internal/models"
	"github.com/diogo/floatchat/internal/render"
	"github.com/diogo/floatchat/internal/session"
)

// EmptyVisualization is shown until a reply carries table or geo data
const EmptyVisualization = "Visual outputs will appear here."

// maxTableRows and maxListedPoints bound the panel content
const (
	maxTableRows    = 50
	maxListedPoints = 8
)

// renderVisualization draws the results panel for the newest reply that
// carries table or geo data
func renderVisualization(snap session.Snapshot, showSQL bool, width, height int) string {
	if snap.Busy {
		return renderSkeleton(width, height)
	}

	msg, ok := snap.LatestVisualization()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			vizEmptyStyle.Render(EmptyVisualization))
	}

	theme := render.GetTUITheme()
	var sections []string

	if msg.GeoData != nil {
		points := models.GeoPoints(msg.GeoData)
		mapHeight := min(max(height/2, 8), 18)
		sections = append(sections,
			vizTitleStyle.Render(fmt.Sprintf("Map · %d location(s)", len(points))),
			render.GeoMap(points, render.MapOptions{Width: width, Height: mapHeight, Theme: theme}),
			subtitleStyle.Render(render.PointList(points, maxListedPoints)),
		)
	}

	if msg.TableData != nil {
		table := models.NewTable(msg.TableData)
		if len(sections) > 0 {
			sections = append(sections, "")
		}
		sections = append(sections,
			vizTitleStyle.Render(fmt.Sprintf("Table · %d row(s)", len(table.Rows))),
			render.Table(table, render.TableOptions{Width: width, MaxRows: maxTableRows, Theme: theme}),
		)
	}

	if msg.SQLQuery != "" {
		sections = append(sections, "")
		if showSQL {
			sections = append(sections,
				vizTitleStyle.Render("SQL"),
				render.HighlightSQL(msg.SQLQuery),
			)
		} else {
			sections = append(sections, hintStyle.Render("Tab to show the SQL query"))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSkeleton draws placeholder blocks while a request is outstanding
func renderSkeleton(width, height int) string {
	width = max(width, 10)
	lines := []string{vizTitleStyle.Render("Fetching results…"), ""}

	widths := []int{width, width * 3 / 4, width, width / 2}
	for i := 0; len(lines) < max(height-1, 4); i++ {
		w := widths[i%len(widths)]
		lines = append(lines, skeletonStyle.Render(strings.Repeat("░", w)))
		if i%2 == 1 {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}
