package workflow

import (
	"context"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/casetrail/casetrail/pkg/storage"
)

// TextExtractor submits document bytes for layout analysis and returns the
// extracted text, blocking until the analysis completes.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ChatCompleter issues chat completion requests. Satisfied by *openai.Client.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Runtime bundles the external service handles that pipeline nodes require.
// Handles are constructed once at process start and shared read-only across
// requests; none of them carry per-request state.
type Runtime struct {
	Storage storage.System
	OCR     TextExtractor
	Chat    ChatCompleter
	Model   string
	Workers int
	Logger  *slog.Logger
}
