package ollama

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrNotRunning      = errors.New("ollama is not reachable")
	ErrTimeout         = errors.New("request timed out")
	ErrModelNotFound   = errors.New("model not found")
	ErrStreamTruncated = errors.New("stream ended before terminal chunk")
	ErrStreamClosed    = errors.New("stream is closed")
)

// APIError is a structured failure reported by the Ollama server itself, as
// opposed to a transport failure reaching it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ollama api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ollama api error (%d)", e.StatusCode)
}
