// Package ui is the Bubble Tea chat front end. It drives a streaming
// conversation against the assist layer and renders assistant replies
// as markdown.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seekerlabs/seeker/internal/config"
	"github.com/seekerlabs/seeker/internal/ui/services"
	"github.com/seekerlabs/seeker/internal/ui/views"
)

// UI wraps the Bubble Tea program for the chat loop.
type UI struct {
	program *tea.Program
}

// New builds the chat UI around an assistant. modelName is shown in the
// status bar until the user switches models.
func New(assistant Assistant, modelName string, cfg config.UIConfig) *UI {
	views.SetPalette(cfg.ColorPrimary, cfg.ColorError, cfg.ColorMuted)
	renderer := services.NewGlamourRenderer(cfg.GlamourStyle)

	model := newChatModel(assistant, renderer, modelName)
	return &UI{program: tea.NewProgram(model, tea.WithAltScreen())}
}

// Run blocks until the user quits.
func (u *UI) Run() error {
	_, err := u.program.Run()
	return err
}
