package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/casetrail/casetrail/pkg/formatting"
)

const (
	entityTemperature = 0
	entityMaxTokens   = 400
)

// EntityNode returns a state node that prompts the model to extract the five
// fixed investigation entities from the case email description and OCR text.
// The model is invoked deterministically (temperature 0) and must answer
// with strict JSON; the raw text of an unparseable answer is logged before
// the stage fails.
func EntityNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		meta, err := stateValue[CaseMetadata](s, KeyMetadata)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		ocrText, err := stateValue[string](s, KeyOCRText)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		entities, err := extractEntities(ctx, rt, meta.Email.Description, ocrText)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "extract node complete",
			"entity_count", len(entities),
		)

		s = s.Set(KeyEntities, entities)
		return s, nil
	})
}

func extractEntities(ctx context.Context, rt *Runtime, emailDescription, ocrText string) (Entities, error) {
	prompt := ComposeEntityPrompt(emailDescription, ocrText)

	content, err := complete(ctx, rt, entitySystemPrompt, prompt, entityTemperature, entityMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntityFailed, err)
	}

	entities, err := parseStrict[Entities](rt, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntityFailed, err)
	}

	return entities, nil
}

// complete issues a single chat completion and returns the first choice's
// content.
func complete(
	ctx context.Context,
	rt *Runtime,
	system, user string,
	temperature float32,
	maxTokens int,
) (string, error) {
	// the client marks temperature omitempty, so a literal 0 never reaches
	// the wire and the service substitutes its own default. The smallest
	// positive float32 survives serialization and still samples greedily.
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := rt.Chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: rt.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// parseStrict applies the shared fence-stripping strict-JSON parse. Both
// model stages use it identically: an unparseable answer is logged with its
// raw text, then surfaced as ErrInvalidModelOutput.
func parseStrict[T any](rt *Runtime, content string) (T, error) {
	parsed, err := formatting.Parse[T](content)
	if err != nil {
		if errors.Is(err, formatting.ErrParseFailed) {
			rt.Logger.Error("invalid JSON from model", "raw", content)
			return parsed, ErrInvalidModelOutput
		}
		return parsed, err
	}
	return parsed, nil
}
