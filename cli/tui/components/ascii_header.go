package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"

	"github.com/plasturgie/plasturgie/cli/tui/styles"
)

// RenderASCIIHeader renders the product banner.
func RenderASCIIHeader(width int) string {
	logo := figure.NewFigure("PLASTURGIE", "small", true)
	return lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Align(lipgloss.Left).
		Width(width).
		Render(logo.String())
}
