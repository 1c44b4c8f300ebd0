// Package render draws an allocation result as horizontal lane bars for the
// terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kilianp07/ferry/core/allocation"
	"github.com/kilianp07/ferry/core/model"
)

// DefaultWidth is the bar width used when Lanes is given a non-positive width.
const DefaultWidth = 60

var (
	mutedColor = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Width(6).
			Foreground(lipgloss.Color("#00D7FF"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	loadStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(1)

	overflowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4B4B"))

	categoryStyles = map[model.Category]lipgloss.Style{
		model.CategorySmallCar:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		model.CategoryMediumCar: lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF")),
		model.CategoryLargeCar:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
		model.CategoryVan:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
		model.CategoryLorry:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")),
	}

	categoryGlyphs = map[model.Category]string{
		model.CategorySmallCar:  "s",
		model.CategoryMediumCar: "m",
		model.CategoryLargeCar:  "l",
		model.CategoryVan:       "v",
		model.CategoryLorry:     "L",
	}
)

// Lanes renders one bar per lane, width cells wide, where each vehicle
// occupies a share of the bar proportional to its length. The overflow list
// follows the bars.
func Lanes(res allocation.Result, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	rows := []string{titleStyle.Render(fmt.Sprintf("Deck (%s, %dcm per lane)", res.Strategy, res.Capacity))}
	loads := res.LaneLoads()
	for i, vs := range res.Lanes {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(fmt.Sprintf("Ln %d", i)),
			bar(vs, res.Capacity, width),
			loadStyle.Render(fmt.Sprintf("%d/%dcm", loads[i], res.Capacity)),
		))
	}
	rows = append(rows, legend())
	if len(res.Overflow) > 0 {
		parts := make([]string, len(res.Overflow))
		for i, v := range res.Overflow {
			parts[i] = v.String()
		}
		rows = append(rows, overflowStyle.Render("Overflow: "+strings.Join(parts, ", ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// bar draws the vehicles of one lane. Segment boundaries are computed from
// cumulative load so rounding never makes the bar wider than width.
func bar(vs []model.Vehicle, capacity, width int) string {
	if capacity <= 0 {
		return emptyStyle.Render(strings.Repeat("·", width))
	}
	var b strings.Builder
	used, cells := 0, 0
	for _, v := range vs {
		used += v.Length
		end := min(used*width/capacity, width)
		if n := end - cells; n > 0 {
			b.WriteString(styleFor(v.Category).Render(strings.Repeat(glyphFor(v.Category), n)))
			cells = end
		}
	}
	if cells < width {
		b.WriteString(emptyStyle.Render(strings.Repeat("·", width-cells)))
	}
	return b.String()
}

func legend() string {
	var parts []string
	for _, c := range model.VehicleClasses() {
		parts = append(parts, styleFor(c.Category).Render(glyphFor(c.Category))+" "+string(c.Category))
	}
	return emptyStyle.Render("legend: ") + strings.Join(parts, "  ")
}

func styleFor(c model.Category) lipgloss.Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return emptyStyle
}

func glyphFor(c model.Category) string {
	if g, ok := categoryGlyphs[c]; ok {
		return g
	}
	return "?"
}
