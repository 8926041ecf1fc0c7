// Package session mediates request/response exchanges with a generation
// backend. It owns the conversation history and the generation config,
// supports buffered and streamed delivery, and never retries on its own:
// a partially streamed generation cannot resume, so retry policy belongs
// to the caller.
package session

import (
	"fmt"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role    Role
	Content string
}

// Config carries the generation parameters for a session. It is validated
// once in New; afterwards only the model may change, via Session.SetModel.
type Config struct {
	// Model is the backend model identifier, e.g. "deepseek-v2.5".
	Model string

	// Temperature in [0, 2]. Zero means the backend default.
	Temperature float64

	// NumCtx is the context window size in tokens. Zero means the
	// backend default.
	NumCtx int

	// MaxTokens caps the generated output. Zero means unlimited.
	MaxTokens int

	// Timeout bounds a buffered Complete call and, for streams, the gap
	// between chunks. Zero means the transport default applies.
	Timeout time.Duration
}

// Validate checks the config once at session creation.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidConfig)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: temperature %v out of range [0, 2]", ErrInvalidConfig, c.Temperature)
	}
	if c.NumCtx < 0 {
		return fmt.Errorf("%w: num_ctx must not be negative", ErrInvalidConfig)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must not be negative", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// State is the lifecycle of a single request.
type State int

const (
	StateIdle State = iota
	StateSent
	StateStreaming
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSent:
		return "sent"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
