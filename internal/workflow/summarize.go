package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

const (
	summaryTemperature = 0.2
	summaryMaxTokens   = 500
)

// SummaryNode returns a state node that prompts the model to synthesize the
// extracted entities and OCR text into the final investigation summary. The
// answer must satisfy the summary schema before it is accepted into state.
func SummaryNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		caseID, err := stateValue[string](s, KeyCaseID)
		if err != nil {
			return s, fmt.Errorf("summarize: %w", err)
		}

		entities, err := stateValue[Entities](s, KeyEntities)
		if err != nil {
			return s, fmt.Errorf("summarize: %w", err)
		}

		ocrText, err := stateValue[string](s, KeyOCRText)
		if err != nil {
			return s, fmt.Errorf("summarize: %w", err)
		}

		record, err := summarize(ctx, rt, caseID, entities, ocrText)
		if err != nil {
			return s, fmt.Errorf("summarize: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "summarize node complete",
			"case_id", record.CaseID,
			"risk_level", record.RiskLevel,
		)

		s = s.Set(KeySummary, record)
		return s, nil
	})
}

func summarize(ctx context.Context, rt *Runtime, caseID string, entities Entities, ocrText string) (SummaryRecord, error) {
	prompt, err := ComposeSummaryPrompt(caseID, entities, ocrText)
	if err != nil {
		return SummaryRecord{}, fmt.Errorf("%w: %w", ErrSummaryFailed, err)
	}

	content, err := complete(ctx, rt, summarySystemPrompt, prompt, summaryTemperature, summaryMaxTokens)
	if err != nil {
		return SummaryRecord{}, fmt.Errorf("%w: %w", ErrSummaryFailed, err)
	}

	record, err := parseStrict[SummaryRecord](rt, content)
	if err != nil {
		return SummaryRecord{}, fmt.Errorf("%w: %w", ErrSummaryFailed, err)
	}

	if err := ValidateSummary(record); err != nil {
		rt.Logger.Error("summary failed schema validation", "raw", content, "error", err)
		return SummaryRecord{}, fmt.Errorf("%w: %w", ErrSummaryFailed, fmt.Errorf("%w: %w", ErrInvalidSummary, err))
	}

	return record, nil
}
