package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the summarization pipeline for a single case. It builds the
// state graph (resolve → ocr → extract → summarize), executes it, and
// assembles the PipelineResult from the final state. Attachments must
// already be in blob storage; persistence is the caller's concern.
func Execute(
	ctx context.Context,
	rt *Runtime,
	caseID string,
	meta CaseMetadata,
) (*PipelineResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyCaseID, caseID)
	initialState = initialState.Set(KeyMetadata, meta)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("case-summarize")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("resolve", ResolveNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("ocr", OCRNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", EntityNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("summarize", SummaryNode(rt)); err != nil {
		return nil, err
	}

	// the pipeline is strictly linear; every edge is unconditional
	if err := graph.AddEdge("resolve", "ocr", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("ocr", "extract", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("extract", "summarize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("resolve"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("summarize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*PipelineResult, error) {
	caseID, err := stateValue[string](s, KeyCaseID)
	if err != nil {
		return nil, err
	}

	attachments, err := stateValue[[]Attachment](s, KeyAttachments)
	if err != nil {
		return nil, err
	}

	ocrText, err := stateValue[string](s, KeyOCRText)
	if err != nil {
		return nil, err
	}

	entities, err := stateValue[Entities](s, KeyEntities)
	if err != nil {
		return nil, err
	}

	summary, err := stateValue[SummaryRecord](s, KeySummary)
	if err != nil {
		return nil, err
	}

	return &PipelineResult{
		CaseID:          caseID,
		AttachmentCount: len(attachments),
		OCRText:         ocrText,
		Entities:        entities,
		Summary:         summary,
		CompletedAt:     time.Now().UTC(),
	}, nil
}

func stateValue[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("missing %s in state", key)
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%s has unexpected type %T", key, val)
	}

	return typed, nil
}
