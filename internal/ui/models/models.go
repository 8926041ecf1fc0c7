// Package models holds the shared view state for the chat UI.
package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Message is one entry in the conversation transcript.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// State is the complete view state rendered by the views package.
type State struct {
	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model
	Messages []Message

	Width  int
	Height int

	// Streaming is true while an assistant reply is being received.
	// The last entry of Messages grows chunk by chunk.
	Streaming bool
	DotCount  int

	StatusPhase   string
	StatusMessage string
	CurrentModel  string

	ModelList      []string
	ShowModelList  bool
	ModelListIndex int
}
