// Package ollama is the HTTP transport for a local Ollama endpoint. It
// covers exactly what the session layer needs: reachability, model listing,
// buffered chat, newline-delimited-JSON streaming chat, and model pulls.
package ollama

import "time"

// Message is a chat message in the conversation sent to /api/chat.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// Options carries model parameters for inference. Zero values are omitted
// so the server's own defaults apply.
type Options struct {
	Temperature float64  `json:"temperature,omitempty"`
	TopP        float64  `json:"top_p,omitempty"`
	NumCtx      int      `json:"num_ctx,omitempty"`     // context window size
	NumPredict  int      `json:"num_predict,omitempty"` // max tokens to generate
	Stop        []string `json:"stop,omitempty"`
	Seed        int      `json:"seed,omitempty"`
}

// ChatRequest is the request body for /api/chat.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

// ChatResponse is one /api/chat payload: the whole response when buffered,
// one increment per line when streaming.
type ChatResponse struct {
	Model           string    `json:"model"`
	CreatedAt       time.Time `json:"created_at"`
	Message         Message   `json:"message"`
	Done            bool      `json:"done"`
	DoneReason      string    `json:"done_reason,omitempty"`
	PromptEvalCount int       `json:"prompt_eval_count,omitempty"`
	EvalCount       int       `json:"eval_count,omitempty"`
	TotalDuration   int64     `json:"total_duration,omitempty"` // nanoseconds
	EvalDuration    int64     `json:"eval_duration,omitempty"`  // nanoseconds
}

// ModelInfo describes one locally installed model from /api/tags.
type ModelInfo struct {
	Name       string    `json:"name"`
	Model      string    `json:"model,omitempty"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// listModelsResponse is the envelope returned by /api/tags.
type listModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// pullRequest is the request body for /api/pull.
type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// PullProgress is one status line of a streaming model pull.
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Err       string `json:"error,omitempty"`
}

// apiError is the structured error body Ollama returns on failures.
type apiError struct {
	Error string `json:"error"`
}

// Chunk is one increment of a streaming chat response. Chunks surface in
// emission order; the terminal chunk has Done set and carries token counts.
type Chunk struct {
	Content          string
	Done             bool
	DoneReason       string
	Model            string
	PromptTokens     int
	CompletionTokens int
}
