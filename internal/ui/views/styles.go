package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("63")
	ColorError   = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("241")
)

var (
	UserMessageStyle      = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	AssistantMessageStyle = lipgloss.NewStyle()

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	StatusReadyStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusThinkingStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	StatusErrorStyle    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	PopupBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)
)

// SetPalette rebuilds the shared styles from configured ANSI colors.
func SetPalette(primary, errColor, muted string) {
	ColorPrimary = lipgloss.Color(primary)
	ColorError = lipgloss.Color(errColor)
	ColorMuted = lipgloss.Color(muted)

	UserMessageStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)
	StatusReadyStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusThinkingStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	PopupBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
}
