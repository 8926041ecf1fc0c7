package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Stream is a pull-based iterator over a streaming chat response. Chunks
// are surfaced strictly in the order the server emitted them; the sequence
// is finite and not restartable. The consumer owns the connection: Close
// releases it, and must be called even after an early abandon.
type Stream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	cancel context.CancelFunc
	idle   time.Duration
	timer  *idleTimer
	done   bool
	closed bool
}

// idleTimer cancels an in-flight request when no data arrives within the
// configured window. It is armed before the request goes out, so the wait
// for response headers is bounded the same way as every inter-chunk gap:
// when it fires the request context is cancelled and the blocked read or
// Do call fails.
type idleTimer struct {
	timer   *time.Timer
	expired atomic.Bool
}

func startIdleTimer(idle time.Duration, cancel context.CancelFunc) *idleTimer {
	t := &idleTimer{}
	t.timer = time.AfterFunc(idle, func() {
		t.expired.Store(true)
		cancel()
	})
	return t
}

func (t *idleTimer) Reset(d time.Duration) { t.timer.Reset(d) }
func (t *idleTimer) Stop()                 { t.timer.Stop() }
func (t *idleTimer) Expired() bool         { return t.expired.Load() }

func newStream(body io.ReadCloser, cancel context.CancelFunc, idle time.Duration, timer *idleTimer) *Stream {
	return &Stream{
		body:   body,
		reader: bufio.NewReader(body),
		cancel: cancel,
		idle:   idle,
		timer:  timer,
	}
}

// Next returns the next chunk. After the terminal chunk it returns io.EOF.
// A transport failure or a stream that ends without a terminal chunk is
// reported as an error, so a caller can always distinguish "completed"
// from "failed after partial output".
func (s *Stream) Next() (*Chunk, error) {
	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.done {
		return nil, io.EOF
	}

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(line) == 0 {
				// The server hung up without a terminal chunk.
				return nil, ErrStreamTruncated
			}
			if len(line) == 0 {
				if s.timer.Expired() {
					return nil, fmt.Errorf("%w: no chunk within %v", ErrTimeout, s.idle)
				}
				return nil, fmt.Errorf("stream read failed: %w", err)
			}
			// Fall through and try to parse the trailing partial line.
		}

		s.timer.Reset(s.idle)

		if len(line) == 0 || len(line) == 1 && line[0] == '\n' {
			continue
		}

		// Mid-stream failures arrive as an error object on its own line,
		// so every line is checked for one.
		var resp struct {
			ChatResponse
			Err string `json:"error"`
		}
		if err := json.Unmarshal(line, &resp); err != nil {
			continue // skip malformed lines, matching the server's framing
		}
		if resp.Err != "" {
			return nil, &APIError{Message: resp.Err}
		}

		chunk := &Chunk{
			Content:    resp.Message.Content,
			Done:       resp.Done,
			DoneReason: resp.DoneReason,
			Model:      resp.Model,
		}
		if resp.Done {
			chunk.PromptTokens = resp.PromptEvalCount
			chunk.CompletionTokens = resp.EvalCount
			s.done = true
			s.timer.Stop()
		}
		return chunk, nil
	}
}

// Close releases the underlying connection. It is idempotent and safe to
// call at any point of consumption; closing before the terminal chunk
// cancels the in-flight request.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.timer.Stop()
	s.cancel()
	return s.body.Close()
}

// Collect drains the stream to completion and returns the concatenated
// content. Used by callers that asked for streaming transport but want a
// buffered result.
func (s *Stream) Collect() (string, error) {
	defer s.Close()

	var b []byte
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return string(b), nil
		}
		if err != nil {
			return "", err
		}
		b = append(b, chunk.Content...)
		if chunk.Done {
			return string(b), nil
		}
	}
}
