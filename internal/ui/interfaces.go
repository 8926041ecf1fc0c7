package ui

import (
	"context"

	"github.com/seekerlabs/seeker/internal/session"
)

// Assistant is the slice of the assist layer the chat UI needs:
// streaming replies, transcript recording, and model management.
type Assistant interface {
	Chat(ctx context.Context, message string) (session.ChunkStream, error)
	RecordReply(text string)
	Models(ctx context.Context) ([]string, error)
	SwitchModel(ctx context.Context, name string) error
}
