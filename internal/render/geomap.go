package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/floatchat/internal/models"
)

// Map glyphs
const (
	glyphEmpty  = ' '
	glyphGrid   = '·'
	glyphPoint  = '●'
	glyphStack  = '◉'
	minMapWidth = 12
	minMapRows  = 4
)

// Bounds is a lat/lon rectangle in degrees
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// WorldBounds covers the whole globe
func WorldBounds() Bounds {
	return Bounds{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}
}

// FitBounds returns a padded rectangle around points, clamped to the globe.
// With no points the whole globe is shown.
func FitBounds(points []models.GeoPoint) Bounds {
	if len(points) == 0 {
		return WorldBounds()
	}

	b := Bounds{MinLat: 90, MaxLat: -90, MinLon: 180, MaxLon: -180}
	for _, p := range points {
		b.MinLat = math.Min(b.MinLat, p.Latitude)
		b.MaxLat = math.Max(b.MaxLat, p.Latitude)
		b.MinLon = math.Min(b.MinLon, p.Longitude)
		b.MaxLon = math.Max(b.MaxLon, p.Longitude)
	}

	b.MinLat, b.MaxLat = pad(b.MinLat, b.MaxLat, 10, -90, 90)
	b.MinLon, b.MaxLon = pad(b.MinLon, b.MaxLon, 20, -180, 180)
	return b
}

// pad widens [lo, hi] by 10% (at least minSpan overall) and clamps it
func pad(lo, hi, minSpan, floor, ceil float64) (float64, float64) {
	span := hi - lo
	margin := math.Max(span*0.1, (minSpan-span)/2)
	lo, hi = lo-margin, hi+margin
	if lo < floor {
		hi = math.Min(ceil, hi+(floor-lo))
		lo = floor
	}
	if hi > ceil {
		lo = math.Max(floor, lo-(hi-ceil))
		hi = ceil
	}
	return lo, hi
}

// PlotGrid projects points onto a width x height equirectangular grid and
// returns the rows as plain text, plus the number of points plotted.
func PlotGrid(points []models.GeoPoint, b Bounds, width, height int) ([]string, int) {
	width = max(width, minMapWidth)
	height = max(height, minMapRows)

	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(glyphEmpty), width))
	}

	latStep := gridStep(b.MaxLat - b.MinLat)
	lonStep := gridStep(b.MaxLon - b.MinLon)
	for lat := math.Ceil(b.MinLat/latStep) * latStep; lat <= b.MaxLat; lat += latStep {
		y := project(b.MaxLat-lat, b.MaxLat-b.MinLat, height)
		for x := 0; x < width; x += 2 {
			grid[y][x] = glyphGrid
		}
	}
	for lon := math.Ceil(b.MinLon/lonStep) * lonStep; lon <= b.MaxLon; lon += lonStep {
		x := project(lon-b.MinLon, b.MaxLon-b.MinLon, width)
		for y := 0; y < height; y++ {
			grid[y][x] = glyphGrid
		}
	}

	plotted := 0
	for _, p := range points {
		if p.Latitude < b.MinLat || p.Latitude > b.MaxLat || p.Longitude < b.MinLon || p.Longitude > b.MaxLon {
			continue
		}
		x := project(p.Longitude-b.MinLon, b.MaxLon-b.MinLon, width)
		y := project(b.MaxLat-p.Latitude, b.MaxLat-b.MinLat, height)
		if grid[y][x] == glyphPoint || grid[y][x] == glyphStack {
			grid[y][x] = glyphStack
		} else {
			grid[y][x] = glyphPoint
		}
		plotted++
	}

	rows := make([]string, height)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return rows, plotted
}

func project(offset, span float64, cells int) int {
	if span <= 0 {
		return 0
	}
	i := int(math.Round(offset / span * float64(cells-1)))
	return min(max(i, 0), cells-1)
}

// gridStep picks a graticule spacing that yields at most ~6 lines
func gridStep(span float64) float64 {
	for _, s := range []float64{1, 2, 5, 10, 15, 30, 45, 60} {
		if span/s <= 6 {
			return s
		}
	}
	return 90
}

// MapOptions controls map rendering
type MapOptions struct {
	Width  int
	Height int
	Theme  TUITheme
	// World disables fitting the view to the points
	World bool
}

// GeoMap renders a bordered, colored plot of points with axis labels
func GeoMap(points []models.GeoPoint, opts MapOptions) string {
	theme := opts.Theme
	if theme.Name == "" {
		theme = GetTUITheme()
	}

	b := WorldBounds()
	if !opts.World {
		b = FitBounds(points)
	}

	innerWidth := max(opts.Width-2, minMapWidth)
	rows, plotted := PlotGrid(points, b, innerWidth, max(opts.Height-3, minMapRows))

	gridStyle := lipgloss.NewStyle().Foreground(theme.Land)
	markStyle := lipgloss.NewStyle().Foreground(theme.Marker).Bold(true)

	var body strings.Builder
	for i, row := range rows {
		if i > 0 {
			body.WriteString("\n")
		}
		for _, r := range row {
			switch r {
			case glyphPoint, glyphStack:
				body.WriteString(markStyle.Render(string(r)))
			default:
				body.WriteString(gridStyle.Render(string(r)))
			}
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(body.String())

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	left := fmt.Sprintf("%s,%s", formatLat(b.MaxLat), formatLon(b.MinLon))
	right := fmt.Sprintf("%s,%s", formatLat(b.MinLat), formatLon(b.MaxLon))
	gap := max(innerWidth+2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	legend := dim.Render(left + strings.Repeat(" ", gap) + right)
	count := dim.Render(fmt.Sprintf("%d of %d point(s) plotted", plotted, len(points)))

	return lipgloss.JoinVertical(lipgloss.Left, box, legend, count)
}

// PointList renders up to limit point labels, one per line
func PointList(points []models.GeoPoint, limit int) string {
	if len(points) == 0 {
		return "No plottable locations."
	}
	shown := points
	if limit > 0 && len(points) > limit {
		shown = points[:limit]
	}

	var sb strings.Builder
	for i, p := range shown {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, p.Label()))
	}
	if len(shown) < len(points) {
		sb.WriteString(fmt.Sprintf("\n… %d more", len(points)-len(shown)))
	}
	return sb.String()
}

func formatLat(v float64) string {
	h := "N"
	if v < 0 {
		h = "S"
	}
	return fmt.Sprintf("%.0f°%s", math.Abs(v), h)
}

func formatLon(v float64) string {
	h := "E"
	if v < 0 {
		h = "W"
	}
	return fmt.Sprintf("%.0f°%s", math.Abs(v), h)
}
