package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Config holds client options. Zero values fall back to defaults.
type Config struct {
	// Host is the Ollama base URL. The explicit IPv4 default avoids
	// localhost resolving to IPv6 on hosts where Ollama binds v4 only.
	Host string

	// RequestTimeout bounds buffered requests end to end.
	RequestTimeout time.Duration

	// StreamIdleTimeout bounds the gap between consecutive stream chunks.
	// The initial response is covered by it as well.
	StreamIdleTimeout time.Duration
}

const (
	DefaultHost              = "http://127.0.0.1:11434"
	DefaultRequestTimeout    = 5 * time.Minute
	DefaultStreamIdleTimeout = 60 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.StreamIdleTimeout <= 0 {
		c.StreamIdleTimeout = DefaultStreamIdleTimeout
	}
	return c
}

// Client talks to one Ollama endpoint. Safe for concurrent use.
type Client struct {
	config Config
	// buffered requests carry a hard timeout; streaming requests manage
	// their own deadline per chunk, so they use a client without one.
	httpClient   *http.Client
	streamClient *http.Client
	logger       *log.Logger
}

// NewClient creates a Client for the given configuration.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		config:       cfg,
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		streamClient: &http.Client{},
		logger:       log.WithPrefix("ollama"),
	}
}

// Host returns the configured base URL.
func (c *Client) Host() string { return c.config.Host }

// Ping verifies the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "unexpected status from " + c.config.Host}
	}
	return nil
}

// ListModels returns the models installed on the endpoint.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var result listModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}
	return result.Models, nil
}

// Chat sends a buffered chat request and returns the complete response.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	req.Stream = false

	httpReq, err := c.newChatRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	c.logger.Debug("chat completed", "model", req.Model, "latency", time.Since(start))
	return &result, nil
}

// ChatStream sends a streaming chat request. The returned Stream must be
// closed by the caller; abandoning it without Close leaks the connection.
// Closing mid-stream cancels the in-flight request.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest) (*Stream, error) {
	req.Stream = true

	ctx, cancel := context.WithCancel(ctx)

	httpReq, err := c.newChatRequest(ctx, req)
	if err != nil {
		cancel()
		return nil, err
	}

	// Armed before the request goes out: a server that accepts the
	// connection but never sends response headers is cut off the same
	// way as a stream that stalls between chunks.
	timer := startIdleTimer(c.config.StreamIdleTimeout, cancel)

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		timer.Stop()
		cancel()
		if timer.Expired() {
			return nil, fmt.Errorf("%w: no response within %v", ErrTimeout, c.config.StreamIdleTimeout)
		}
		return nil, c.transportError(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		timer.Stop()
		err := c.apiError(resp)
		resp.Body.Close()
		cancel()
		return nil, err
	}

	c.logger.Debug("stream opened", "model", req.Model)
	return newStream(resp.Body, cancel, c.config.StreamIdleTimeout, timer), nil
}

// Pull downloads a model, reporting progress lines through onProgress
// (which may be nil). It fails if the final status is not success.
func (c *Client) Pull(ctx context.Context, name string, onProgress func(PullProgress)) error {
	body, err := json.Marshal(pullRequest{Name: name, Stream: true})
	if err != nil {
		return fmt.Errorf("failed to marshal pull request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Host+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}

	var last PullProgress
	dec := json.NewDecoder(resp.Body)
	for dec.More() {
		var progress PullProgress
		if err := dec.Decode(&progress); err != nil {
			return fmt.Errorf("failed to decode pull progress: %w", err)
		}
		if progress.Err != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: progress.Err}
		}
		if onProgress != nil {
			onProgress(progress)
		}
		last = progress
	}

	switch last.Status {
	case "success", "exists":
		return nil
	default:
		return fmt.Errorf("pull of %s ended with status %q", name, last.Status)
	}
}

// EnsureRunning pings the endpoint and, if it is down, tries to start the
// server through the platform-specific bootstrap, waiting until it answers.
func (c *Client) EnsureRunning(ctx context.Context) error {
	if err := c.Ping(ctx); err == nil {
		return nil
	}

	c.logger.Info("ollama not reachable, attempting to start it")
	if err := startServer(ctx); err != nil {
		return fmt.Errorf("failed to start ollama: %w", err)
	}

	// The server takes a moment to bind after the process starts.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(15 * time.Second)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrNotRunning
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (c *Client) newChatRequest(ctx context.Context, req ChatRequest) (*http.Request, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

// transportError maps request failures onto the package sentinels.
func (c *Client) transportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
}

// apiError decodes a non-200 response into a typed error. 404 and "not
// found" bodies map to ErrModelNotFound so callers can branch on it.
func (c *Client) apiError(resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode == http.StatusNotFound {
		if body.Error != "" {
			return fmt.Errorf("%w: %s", ErrModelNotFound, body.Error)
		}
		return ErrModelNotFound
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
