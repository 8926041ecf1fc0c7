package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{Host: srv.URL, StreamIdleTimeout: 5 * time.Second})
}

func writeStreamLine(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	_, err = w.Write(append(data, '\n'))
	require.NoError(t, err)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func TestListModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(listModelsResponse{Models: []ModelInfo{
			{Name: "deepseek-v2.5:latest"},
			{Name: "llama3:8b"},
		}})
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "deepseek-v2.5:latest", models[0].Name)
}

func TestListModelsNotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens on this address anymore

	client := NewClient(Config{Host: srv.URL})
	_, err := client.ListModels(context.Background())
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestChatBuffered(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "deepseek-v2.5", req.Model)

		json.NewEncoder(w).Encode(ChatResponse{
			Model:   req.Model,
			Message: Message{Role: "assistant", Content: "hello there"},
			Done:    true,
		})
	})

	resp, err := client.Chat(context.Background(), ChatRequest{
		Model:    "deepseek-v2.5",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Message.Content)
	assert.True(t, resp.Done)
}

func TestChatModelNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": `model "nope" not found`})
	})

	_, err := client.Chat(context.Background(), ChatRequest{Model: "nope"})
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestChatStream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		for _, part := range []string{"hel", "lo ", "world"} {
			writeStreamLine(t, w, ChatResponse{Message: Message{Role: "assistant", Content: part}})
		}
		writeStreamLine(t, w, ChatResponse{Done: true, DoneReason: "stop", EvalCount: 3})
	})

	stream, err := client.ChatStream(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	defer stream.Close()

	var got string
	var sawDone bool
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got += chunk.Content
		if chunk.Done {
			sawDone = true
			assert.Equal(t, "stop", chunk.DoneReason)
			assert.Equal(t, 3, chunk.CompletionTokens)
			break
		}
	}
	assert.True(t, sawDone)
	assert.Equal(t, "hello world", got)
}

func TestChatStreamCollect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeStreamLine(t, w, ChatResponse{Message: Message{Content: "a"}})
		writeStreamLine(t, w, ChatResponse{Message: Message{Content: "b"}})
		writeStreamLine(t, w, ChatResponse{Done: true})
	})

	stream, err := client.ChatStream(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)

	text, err := stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, "ab", text)
}

func TestChatStreamMidStreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeStreamLine(t, w, ChatResponse{Message: Message{Content: "partial"}})
		writeStreamLine(t, w, map[string]string{"error": "generation failed"})
	})

	stream, err := client.ChatStream(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	defer stream.Close()

	chunk, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "partial", chunk.Content)

	_, err = stream.Next()
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "generation failed", apiErr.Message)
}

func TestChatStreamTruncated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeStreamLine(t, w, ChatResponse{Message: Message{Content: "partial"}})
		// Connection ends without a Done chunk.
	})

	stream, err := client.ChatStream(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Next()
	require.NoError(t, err)
	_, err = stream.Next()
	assert.ErrorIs(t, err, ErrStreamTruncated)
}

func TestChatStreamCloseIsIdempotent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeStreamLine(t, w, ChatResponse{Message: Message{Content: "x"}})
		writeStreamLine(t, w, ChatResponse{Done: true})
	})

	stream, err := client.ChatStream(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())

	_, err = stream.Next()
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestChatStreamIdleTimeout(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStreamLine(t, w, ChatResponse{Message: Message{Content: "first"}})
		<-release // hold the connection open well past the idle window
	}))
	// Cleanups run last-in-first-out: release the handler before
	// srv.Close waits on it, or teardown deadlocks.
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(Config{Host: srv.URL, StreamIdleTimeout: 100 * time.Millisecond})
	stream, err := client.ChatStream(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	defer stream.Close()

	chunk, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "first", chunk.Content)

	_, err = stream.Next()
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestChatStreamHeaderTimeout(t *testing.T) {
	// A server that accepts the connection but never sends response
	// headers. ChatStream must give up after the idle window instead of
	// blocking on the headers indefinitely.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				<-hold
				conn.Close()
			}()
		}
	}()

	client := NewClient(Config{Host: "http://" + ln.Addr().String(), StreamIdleTimeout: 100 * time.Millisecond})

	type result struct {
		stream *Stream
		err    error
	}
	done := make(chan result, 1)
	go func() {
		stream, err := client.ChatStream(context.Background(), ChatRequest{Model: "m"})
		done <- result{stream, err}
	}()

	select {
	case res := <-done:
		require.Error(t, res.err)
		assert.ErrorIs(t, res.err, ErrTimeout)
		require.Nil(t, res.stream)
	case <-time.After(2 * time.Second):
		t.Fatal("ChatStream did not return within the idle window")
	}
}

func TestPull(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pull", r.URL.Path)
		writeStreamLine(t, w, PullProgress{Status: "pulling manifest"})
		writeStreamLine(t, w, PullProgress{Status: "downloading", Total: 100, Completed: 50})
		writeStreamLine(t, w, PullProgress{Status: "success"})
	})

	var statuses []string
	err := client.Pull(context.Background(), "deepseek-v2.5", func(p PullProgress) {
		statuses = append(statuses, p.Status)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pulling manifest", "downloading", "success"}, statuses)
}

func TestPullFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeStreamLine(t, w, PullProgress{Status: "pulling manifest"})
		writeStreamLine(t, w, map[string]string{"error": "pull model manifest: not found"})
	})

	err := client.Pull(context.Background(), "nope", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "not found")
}

func TestPullUnexpectedTerminalStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeStreamLine(t, w, PullProgress{Status: "downloading"})
	})

	err := client.Pull(context.Background(), "m", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("status %q", "downloading"))
}
