// Package assist implements the high-level coding flows: free-form chat,
// code generation, explanation, and review. It reads workspace files
// through the guard and talks to the model through a session.
package assist

import (
	"context"
	"fmt"

	"github.com/seekerlabs/seeker/internal/session"
	"github.com/seekerlabs/seeker/internal/workspace"
)

// Assistant binds a sandboxed workspace to a model session.
type Assistant struct {
	guard *workspace.Guard
	sess  *session.Session
}

func New(guard *workspace.Guard, sess *session.Session) *Assistant {
	return &Assistant{guard: guard, sess: sess}
}

// Session exposes the underlying model session, mainly for the chat UI.
func (a *Assistant) Session() *session.Session { return a.sess }

// Guard exposes the workspace guard for file commands.
func (a *Assistant) Guard() *workspace.Guard { return a.guard }

// GenerateRequest describes a code-generation task. ContextPath, when
// set, names a workspace file whose content is prepended to the prompt.
type GenerateRequest struct {
	Prompt      string
	Language    string
	ContextPath string
}

// Generate streams generated code for the request. The caller owns the
// returned stream and must Close it.
func (a *Assistant) Generate(ctx context.Context, req GenerateRequest) (session.ChunkStream, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("generate: prompt must not be empty")
	}

	var fileContext string
	if req.ContextPath != "" {
		content, err := a.readWorkspaceFile(req.ContextPath)
		if err != nil {
			return nil, err
		}
		fileContext = content
	}

	history := []session.Turn{
		{Role: session.RoleSystem, Content: generatePrompt(req.Language)},
		{Role: session.RoleUser, Content: generateUserPrompt(req.Prompt, fileContext)},
	}
	return a.sess.Stream(ctx, history)
}

// Explain reads the named workspace file and returns a buffered
// explanation of what it does.
func (a *Assistant) Explain(ctx context.Context, path string) (string, error) {
	code, err := a.readWorkspaceFile(path)
	if err != nil {
		return "", err
	}

	history := []session.Turn{
		{Role: session.RoleSystem, Content: systemExplain},
		{Role: session.RoleUser, Content: explainUserPrompt(code, languageForPath(path))},
	}
	return a.sess.Complete(ctx, history)
}

// Review reads the named workspace file and returns a buffered review
// covering bugs, performance, security, and style.
func (a *Assistant) Review(ctx context.Context, path string) (string, error) {
	code, err := a.readWorkspaceFile(path)
	if err != nil {
		return "", err
	}

	history := []session.Turn{
		{Role: session.RoleSystem, Content: systemReview},
		{Role: session.RoleUser, Content: reviewUserPrompt(code, languageForPath(path))},
	}
	return a.sess.Complete(ctx, history)
}

// Chat appends the user message to the session history and streams the
// assistant reply. The caller should append the collected reply back
// via RecordReply so the conversation stays coherent.
func (a *Assistant) Chat(ctx context.Context, message string) (session.ChunkStream, error) {
	a.sess.Append(session.Turn{Role: session.RoleUser, Content: message})

	history := append([]session.Turn{{Role: session.RoleSystem, Content: systemChat}}, a.sess.History()...)
	return a.sess.Stream(ctx, history)
}

// RecordReply stores a completed assistant reply in the session history.
func (a *Assistant) RecordReply(text string) {
	a.sess.Append(session.Turn{Role: session.RoleAssistant, Content: text})
}

// Models returns the names of the installed models.
func (a *Assistant) Models(ctx context.Context) ([]string, error) {
	infos, err := a.sess.Models(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names, nil
}

// SwitchModel resolves the requested name against the installed models
// and points the session at it.
func (a *Assistant) SwitchModel(ctx context.Context, name string) error {
	installed, err := a.Models(ctx)
	if err != nil {
		return err
	}
	resolved, err := session.NormalizeModel(name, installed)
	if err != nil {
		return err
	}
	return a.sess.SetModel(resolved)
}

func (a *Assistant) readWorkspaceFile(path string) (string, error) {
	resolved, err := a.guard.Resolve(path, workspace.ForRead)
	if err != nil {
		return "", err
	}
	return a.guard.ReadText(resolved)
}
