package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = "#D4AF37"
	colorUser   = "#60A5FA"
	colorBot    = "#F87171"
	colorMuted  = "#6B7280"
)

type styles struct {
	Title     lipgloss.Style
	Box       lipgloss.Style
	UserLabel lipgloss.Style
	BotLabel  lipgloss.Style
	Status    lipgloss.Style
	Help      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)),
		UserLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorUser)),
		BotLabel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorBot)),
		Status:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(colorMuted)),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)),
	}
}
