package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Overlay0 = lipgloss.Color("#6c7086")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Mauve    = lipgloss.Color("#cba6f7")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green)

	Toast = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Mauve).
		Background(Surface0).
		Foreground(Text).
		Padding(0, 1)
)

// Tier colours an urgency tier name.
func Tier(tier string) lipgloss.Style {
	switch tier {
	case "overdue":
		return lipgloss.NewStyle().Foreground(Red).Bold(true).Strikethrough(true)
	case "critical":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	case "soon":
		return lipgloss.NewStyle().Foreground(Peach)
	case "upcoming":
		return lipgloss.NewStyle().Foreground(Yellow)
	default:
		return lipgloss.NewStyle().Foreground(Subtext0)
	}
}

// Bar renders a coloured progress bar of the given cell width.
func Bar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	if width < 1 {
		width = 1
	}
	filled := percent * width / 100
	colour := Sapphire
	if percent == 100 {
		colour = Green
	}
	return lipgloss.NewStyle().Foreground(colour).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Surface1).Render(strings.Repeat("░", width-filled))
}
