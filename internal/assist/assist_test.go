package assist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekerlabs/seeker/internal/ollama"
	"github.com/seekerlabs/seeker/internal/session"
	"github.com/seekerlabs/seeker/internal/workspace"
)

// recordingBackend captures the last request so tests can assert on the
// prompts the assistant builds.
type recordingBackend struct {
	lastReq ollama.ChatRequest
	reply   string
	models  []string
}

func (b *recordingBackend) Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error) {
	b.lastReq = req
	return &ollama.ChatResponse{
		Message: ollama.Message{Role: "assistant", Content: b.reply},
		Done:    true,
	}, nil
}

func (b *recordingBackend) ChatStream(ctx context.Context, req ollama.ChatRequest) (session.ChunkStream, error) {
	b.lastReq = req
	return &replyStream{reply: b.reply}, nil
}

func (b *recordingBackend) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	infos := make([]ollama.ModelInfo, len(b.models))
	for i, name := range b.models {
		infos[i] = ollama.ModelInfo{Name: name}
	}
	return infos, nil
}

type replyStream struct {
	reply string
	pos   int
}

func (s *replyStream) Next() (*ollama.Chunk, error) {
	s.pos++
	if s.pos == 1 {
		return &ollama.Chunk{Content: s.reply}, nil
	}
	return &ollama.Chunk{Done: true, DoneReason: "stop"}, nil
}

func (s *replyStream) Close() error { return nil }

func newTestAssistant(t *testing.T, files map[string]string, reply string) (*Assistant, *recordingBackend) {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	guard, err := workspace.New(root, workspace.Options{})
	require.NoError(t, err)

	backend := &recordingBackend{reply: reply}
	sess, err := session.New(backend, session.Config{Model: "deepseek-v2.5"})
	require.NoError(t, err)

	return New(guard, sess), backend
}

func TestExplain(t *testing.T) {
	code := "package main\n\nfunc main() {}\n"
	assistant, backend := newTestAssistant(t, map[string]string{"main.go": code}, "it is a program")

	out, err := assistant.Explain(context.Background(), "main.go")
	require.NoError(t, err)
	assert.Equal(t, "it is a program", out)

	msgs := backend.lastReq.Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Explain code clearly")
	assert.Contains(t, msgs[1].Content, code)
	assert.Contains(t, msgs[1].Content, "```go")
}

func TestReview(t *testing.T) {
	assistant, backend := newTestAssistant(t, map[string]string{"script.py": "print('hi')\n"}, "looks fine")

	out, err := assistant.Review(context.Background(), "script.py")
	require.NoError(t, err)
	assert.Equal(t, "looks fine", out)

	msgs := backend.lastReq.Messages
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Content, "Security vulnerabilities")
	assert.Contains(t, msgs[1].Content, "```python")
}

func TestExplainOutsideWorkspace(t *testing.T) {
	assistant, _ := newTestAssistant(t, nil, "")

	_, err := assistant.Explain(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, workspace.ErrOutsideWorkspace)
}

func TestExplainMissingFile(t *testing.T) {
	assistant, _ := newTestAssistant(t, nil, "")

	_, err := assistant.Explain(context.Background(), "nope.go")
	assert.ErrorIs(t, err, workspace.ErrNotFound)
}

func TestGenerateStreamsCode(t *testing.T) {
	assistant, backend := newTestAssistant(t, nil, "func Add(a, b int) int { return a + b }")

	stream, err := assistant.Generate(context.Background(), GenerateRequest{
		Prompt:   "write an add function",
		Language: "go",
	})
	require.NoError(t, err)

	out, err := session.Collect(stream)
	require.NoError(t, err)
	assert.Contains(t, out, "func Add")

	msgs := backend.lastReq.Messages
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Content, "The code should be in go.")
	assert.Equal(t, "write an add function", msgs[1].Content)
}

func TestGenerateWithContextFile(t *testing.T) {
	assistant, backend := newTestAssistant(t,
		map[string]string{"types.go": "type User struct{ Name string }\n"}, "ok")

	stream, err := assistant.Generate(context.Background(), GenerateRequest{
		Prompt:      "add a validator for User",
		ContextPath: "types.go",
	})
	require.NoError(t, err)
	_, err = session.Collect(stream)
	require.NoError(t, err)

	user := backend.lastReq.Messages[1].Content
	assert.Contains(t, user, "Context:\ntype User struct{ Name string }")
	assert.Contains(t, user, "Task:\nadd a validator for User")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	assistant, _ := newTestAssistant(t, nil, "")

	_, err := assistant.Generate(context.Background(), GenerateRequest{})
	assert.Error(t, err)
}

func TestSwitchModel(t *testing.T) {
	assistant, backend := newTestAssistant(t, nil, "")
	backend.models = []string{"deepseek-v2.5", "llama3"}

	require.NoError(t, assistant.SwitchModel(context.Background(), "llama3"))
	assert.Equal(t, "llama3", assistant.Session().Config().Model)

	err := assistant.SwitchModel(context.Background(), "gpt-4")
	assert.ErrorIs(t, err, session.ErrModelNotInstalled)
}

func TestChatKeepsHistory(t *testing.T) {
	assistant, backend := newTestAssistant(t, nil, "hello there")

	stream, err := assistant.Chat(context.Background(), "hi")
	require.NoError(t, err)
	reply, err := session.Collect(stream)
	require.NoError(t, err)
	assistant.RecordReply(reply)

	stream, err = assistant.Chat(context.Background(), "and again")
	require.NoError(t, err)
	_, err = session.Collect(stream)
	require.NoError(t, err)

	msgs := backend.lastReq.Messages
	require.Len(t, msgs, 4) // system + first exchange + new message
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "hi", msgs[1].Content)
	assert.Equal(t, "hello there", msgs[2].Content)
	assert.Equal(t, "and again", msgs[3].Content)
}
