// Package styles holds the lipgloss palette shared by the TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	Primary   = lipgloss.AdaptiveColor{Light: "#0B6E4F", Dark: "#04B575"}
	Highlight = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#FAFAFA"}
	Surface   = lipgloss.AdaptiveColor{Light: "#DDEFE7", Dark: "#2A3B34"}
	Border    = lipgloss.AdaptiveColor{Light: "#B8C4BF", Dark: "#4A5550"}
	Muted     = lipgloss.AdaptiveColor{Light: "#6B7470", Dark: "#8A9490"}
	Success   = lipgloss.AdaptiveColor{Light: "#1C7C3A", Dark: "#43BF6D"}
	Warning   = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#F2C14E"}
	Danger    = lipgloss.AdaptiveColor{Light: "#B42318", Dark: "#FF6B6B"}
)

var (
	TitleStyle      = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	InfoStyle       = lipgloss.NewStyle().Foreground(Primary)
	WarningStyle    = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle      = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	SuccessStyle    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	HelpStyle       = lipgloss.NewStyle().Foreground(Muted)
	PaginationStyle = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	EmptyStyle      = lipgloss.NewStyle().Foreground(Muted).Padding(1, 2)
	HelpKeyStyle    = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HelpDescStyle   = lipgloss.NewStyle().Foreground(Muted)

	BreadcrumbStyle       = lipgloss.NewStyle().Foreground(Muted)
	BreadcrumbActiveStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)
	ConfirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Danger).
			Padding(0, 1)
)

// RenderTitle renders a section title.
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

// Disable strips colors, for NO_COLOR and dumb terminals.
func Disable() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
