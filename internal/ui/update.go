package ui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seekerlabs/seeker/internal/session"
	"github.com/seekerlabs/seeker/internal/ui/models"
	"github.com/seekerlabs/seeker/internal/ui/services"
	"github.com/seekerlabs/seeker/internal/ui/views"
)

// ChatModel implements tea.Model for the streaming chat loop.
type ChatModel struct {
	state models.State

	assistant Assistant
	renderer  services.MarkdownRenderer

	// stream is the in-flight reply, nil when idle.
	stream session.ChunkStream
}

// newChatModel creates the initial model state.
func newChatModel(assistant Assistant, renderer services.MarkdownRenderer, modelName string) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ChatModel{
		state: models.State{
			Input:        ti,
			Viewport:     vp,
			Spinner:      sp,
			Messages:     []models.Message{},
			CurrentModel: modelName,
		},
		assistant: assistant,
		renderer:  renderer,
	}
}

// Internal messages
type tickMsg time.Time

type streamStartedMsg struct{ stream session.ChunkStream }
type streamChunkMsg struct{ content string }

// streamDoneMsg carries any content riding on the terminal chunk so it
// is not dropped from the transcript.
type streamDoneMsg struct{ content string }
type errMsg struct{ err error }
type modelListMsg []string
type modelSwitchedMsg string

// Init initializes the model
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		tick(),
	)
}

// Update handles messages
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = msg.Height - 6 // Reserve space for input and status
		m.updateViewport()

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, tea.Batch(cmd, tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case streamStartedMsg:
		m.stream = msg.stream
		m.state.Streaming = true
		m.state.StatusPhase = "thinking"
		m.state.StatusMessage = ""
		m.state.Messages = append(m.state.Messages, models.Message{Role: "assistant"})
		m.updateViewport()
		return m, readChunk(m.stream)

	case streamChunkMsg:
		if n := len(m.state.Messages); n > 0 {
			m.state.Messages[n-1].Content += msg.content
		}
		m.updateViewport()
		return m, readChunk(m.stream)

	case streamDoneMsg:
		if m.stream != nil {
			m.stream.Close()
			m.stream = nil
		}
		if n := len(m.state.Messages); n > 0 {
			m.state.Messages[n-1].Content += msg.content
			m.updateViewport()
			m.assistant.RecordReply(m.state.Messages[n-1].Content)
		}
		m.state.Streaming = false
		m.state.StatusPhase = ""
		return m, nil

	case errMsg:
		if m.stream != nil {
			m.stream.Close()
			m.stream = nil
		}
		m.state.Streaming = false
		m.state.StatusPhase = "error"
		m.state.StatusMessage = msg.err.Error()
		return m, nil

	case modelListMsg:
		m.state.ModelList = []string(msg)
		m.state.ShowModelList = true
		m.state.ModelListIndex = 0
		return m, nil

	case modelSwitchedMsg:
		m.state.CurrentModel = string(msg)
		m.state.StatusPhase = ""
		m.state.StatusMessage = "Switched to " + string(msg)
		return m, nil
	}

	// Update input
	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m ChatModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Model popup navigation takes priority
	if m.state.ShowModelList {
		switch msg.String() {
		case "up", "k":
			if m.state.ModelListIndex > 0 {
				m.state.ModelListIndex--
			}
		case "down", "j":
			if m.state.ModelListIndex < len(m.state.ModelList)-1 {
				m.state.ModelListIndex++
			}
		case "enter":
			if m.state.ModelListIndex < len(m.state.ModelList) {
				name := m.state.ModelList[m.state.ModelListIndex]
				m.state.ShowModelList = false
				return m, m.switchModel(name)
			}
			m.state.ShowModelList = false
		case "esc":
			m.state.ShowModelList = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		if m.stream != nil {
			m.stream.Close()
		}
		return m, tea.Quit

	case "enter":
		input := m.state.Input.Value()
		if m.state.Streaming || input == "" {
			return m, nil
		}

		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}

		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    "user",
			Content: input,
		})
		m.updateViewport()
		m.state.Input.SetValue("")
		return m, m.startChat(input)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// handleCommand handles slash commands
func (m ChatModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "/models":
		m.state.Input.SetValue("")
		return m, m.listModels()
	case "/help":
		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    "assistant",
			Content: "Available commands:\n- /models - List and switch models\n- /help - Show this help\n- /quit - Exit",
		})
		m.updateViewport()
		m.state.Input.SetValue("")
	case "/quit":
		return m, tea.Quit
	}

	return m, nil
}

// updateViewport updates the viewport content
func (m *ChatModel) updateViewport() {
	content := views.FormatChatContent(m.state.Messages, m.state.Width-4, m.renderer)
	m.state.Viewport.SetContent(content)
	m.state.Viewport.GotoBottom()
}

// View renders the UI
func (m ChatModel) View() string {
	return views.RenderRoot(m.state)
}

// startChat opens a reply stream for the given user message.
func (m ChatModel) startChat(input string) tea.Cmd {
	assistant := m.assistant
	return func() tea.Msg {
		stream, err := assistant.Chat(context.Background(), input)
		if err != nil {
			return errMsg{err}
		}
		return streamStartedMsg{stream: stream}
	}
}

// readChunk pulls the next chunk off the reply stream.
func readChunk(stream session.ChunkStream) tea.Cmd {
	return func() tea.Msg {
		chunk, err := stream.Next()
		if err == io.EOF {
			return streamDoneMsg{}
		}
		if err != nil {
			return errMsg{err}
		}
		if chunk.Done {
			return streamDoneMsg{content: chunk.Content}
		}
		return streamChunkMsg{content: chunk.Content}
	}
}

func (m ChatModel) listModels() tea.Cmd {
	assistant := m.assistant
	return func() tea.Msg {
		names, err := assistant.Models(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return modelListMsg(names)
	}
}

func (m ChatModel) switchModel(name string) tea.Cmd {
	assistant := m.assistant
	return func() tea.Msg {
		if err := assistant.SwitchModel(context.Background(), name); err != nil {
			return errMsg{err}
		}
		return modelSwitchedMsg(name)
	}
}

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
