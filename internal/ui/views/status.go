package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seekerlabs/seeker/internal/ui/models"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State) string {
	var left string

	switch s.StatusPhase {
	case "thinking":
		dots := strings.Repeat(".", s.DotCount)
		left = StatusThinkingStyle.Render(fmt.Sprintf("%s Generating%s", s.Spinner.View(), dots))
	case "error":
		left = StatusErrorStyle.Render(s.StatusMessage)
	default:
		status := "Ready"
		if s.StatusMessage != "" {
			status = s.StatusMessage
		}
		left = StatusReadyStyle.Render(status)
	}

	// Right side: current model name, dimmed
	if s.CurrentModel != "" {
		right := lipgloss.NewStyle().Foreground(ColorMuted).Render(s.CurrentModel)
		return fmt.Sprintf("%s  %s", left, right)
	}
	return left
}
