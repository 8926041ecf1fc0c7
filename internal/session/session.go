package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/seekerlabs/seeker/internal/ollama"
)

// ChunkStream is a pull-based iterator over incremental generation output.
// Close releases the underlying connection and must be called even when the
// stream is abandoned early.
type ChunkStream interface {
	Next() (*ollama.Chunk, error)
	Close() error
}

// Backend is the generation service a session talks to. Implemented by
// *ollama.Client via NewOllamaBackend and by test doubles.
type Backend interface {
	Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error)
	ChatStream(ctx context.Context, req ollama.ChatRequest) (ChunkStream, error)
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

// ollamaBackend adapts *ollama.Client to the Backend interface (its
// ChatStream returns the concrete *ollama.Stream).
type ollamaBackend struct {
	client *ollama.Client
}

// NewOllamaBackend wraps an ollama client as a session backend.
func NewOllamaBackend(client *ollama.Client) Backend {
	return &ollamaBackend{client: client}
}

func (b *ollamaBackend) Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error) {
	return b.client.Chat(ctx, req)
}

func (b *ollamaBackend) ChatStream(ctx context.Context, req ollama.ChatRequest) (ChunkStream, error) {
	return b.client.ChatStream(ctx, req)
}

func (b *ollamaBackend) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return b.client.ListModels(ctx)
}

// Session mediates one logical request at a time against a backend. The
// conversation history is append-only and lives as long as the session;
// it is never persisted.
type Session struct {
	backend Backend
	cfg     Config

	mu       sync.Mutex
	history  []Turn
	state    State
	inFlight bool
}

// New validates cfg and creates a session.
func New(backend Backend, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{backend: backend, cfg: cfg, state: StateIdle}, nil
}

// Config returns the current session config.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetModel switches the session to a different model. The name must
// already be resolved against the installed models. Switching is
// rejected while a request is in flight.
func (s *Session) SetModel(model string) error {
	if model == "" {
		return fmt.Errorf("%w: model must not be empty", ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrRequestInFlight
	}
	s.cfg.Model = model
	return nil
}

// State returns the state of the most recent request.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Append adds a turn to the session history.
func (s *Session) Append(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, turn)
}

// History returns a copy of the accumulated turns.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Complete sends the given turns and blocks until the backend returns one
// finished text artifact.
func (s *Session) Complete(ctx context.Context, history []Turn) (string, error) {
	if err := s.begin(StateSent); err != nil {
		return "", err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.backend.Chat(ctx, s.chatRequest(history))
	if err != nil {
		s.finish(StateFailed)
		return "", mapBackendError(err)
	}

	s.finish(StateCompleted)
	return resp.Message.Content, nil
}

// Stream sends the given turns and returns a chunk iterator. The caller
// must Close it; abandoning consumption mid-way cancels the request and
// releases the connection. Chunks surface in backend emission order, and a
// mid-stream backend failure ends the iterator with ErrStreamFailed so a
// partial result is never mistaken for a completed one.
func (s *Session) Stream(ctx context.Context, history []Turn) (ChunkStream, error) {
	if err := s.begin(StateSent); err != nil {
		return nil, err
	}

	stream, err := s.backend.ChatStream(ctx, s.chatRequest(history))
	if err != nil {
		s.finish(StateFailed)
		return nil, mapBackendError(err)
	}

	s.setState(StateStreaming)
	return &trackedStream{inner: stream, session: s}, nil
}

// Models lists the models installed on the backend.
func (s *Session) Models(ctx context.Context) ([]ollama.ModelInfo, error) {
	infos, err := s.backend.ListModels(ctx)
	if err != nil {
		return nil, mapBackendError(err)
	}
	return infos, nil
}

func (s *Session) chatRequest(history []Turn) ollama.ChatRequest {
	messages := make([]ollama.Message, len(history))
	for i, turn := range history {
		messages[i] = ollama.Message{Role: string(turn.Role), Content: turn.Content}
	}

	var opts *ollama.Options
	if s.cfg.Temperature != 0 || s.cfg.NumCtx != 0 || s.cfg.MaxTokens != 0 {
		opts = &ollama.Options{
			Temperature: s.cfg.Temperature,
			NumCtx:      s.cfg.NumCtx,
			NumPredict:  s.cfg.MaxTokens,
		}
	}

	return ollama.ChatRequest{
		Model:    s.cfg.Model,
		Messages: messages,
		Options:  opts,
	}
}

func (s *Session) begin(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrRequestInFlight
	}
	s.inFlight = true
	s.state = state
	return nil
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Session) finish(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.inFlight = false
}

// trackedStream drives the session state machine from stream consumption:
// the terminal chunk moves the session to Completed, an error or an early
// Close to Failed. Either way the in-flight slot is released.
type trackedStream struct {
	inner    ChunkStream
	session  *Session
	finished bool
}

func (t *trackedStream) Next() (*ollama.Chunk, error) {
	chunk, err := t.inner.Next()
	if err != nil {
		if !t.finished {
			t.finished = true
			if err == io.EOF {
				t.session.finish(StateCompleted)
			} else {
				t.session.finish(StateFailed)
			}
		}
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, mapStreamError(err)
	}
	if chunk.Done && !t.finished {
		t.finished = true
		t.session.finish(StateCompleted)
	}
	return chunk, nil
}

func (t *trackedStream) Close() error {
	if !t.finished {
		t.finished = true
		t.session.finish(StateFailed)
	}
	return t.inner.Close()
}

// Collect drains a stream to completion and returns the concatenated text.
func Collect(stream ChunkStream) (string, error) {
	defer stream.Close()

	var sb []byte
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			return string(sb), nil
		}
		if err != nil {
			return "", err
		}
		sb = append(sb, chunk.Content...)
		if chunk.Done {
			return string(sb), nil
		}
	}
}

// mapBackendError translates transport errors into the session taxonomy.
func mapBackendError(err error) error {
	switch {
	case errors.Is(err, ollama.ErrNotRunning):
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	case errors.Is(err, ollama.ErrTimeout):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, ollama.ErrModelNotFound):
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	default:
		return err
	}
}

// mapStreamError translates mid-stream failures; anything that is not a
// clean completion becomes ErrStreamFailed.
func mapStreamError(err error) error {
	switch {
	case errors.Is(err, ollama.ErrTimeout):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, ollama.ErrStreamClosed):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStreamFailed, err)
	}
}
