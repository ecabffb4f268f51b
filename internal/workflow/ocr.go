package workflow

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// OCRNode returns a state node that runs layout analysis across all case
// attachments using bounded errgroup concurrency. Results are written into
// an index-addressed slice so the concatenated text always follows the
// attachment listing order, never completion order. The first extraction
// failure cancels the group and aborts the stage.
func OCRNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		attachments, err := stateValue[[]Attachment](s, KeyAttachments)
		if err != nil {
			return s, fmt.Errorf("ocr: %w", err)
		}

		ocrText, err := extractText(ctx, rt, attachments)
		if err != nil {
			return s, fmt.Errorf("ocr: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "ocr node complete",
			"attachment_count", len(attachments),
			"text_length", len(ocrText),
		)

		s = s.Set(KeyOCRText, ocrText)
		return s, nil
	})
}

func extractText(ctx context.Context, rt *Runtime, attachments []Attachment) (string, error) {
	results := make([]string, len(attachments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(rt.Workers, len(attachments)))

	for i := range attachments {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			text, err := rt.OCR.Extract(gctx, attachments[i].Data)
			if err != nil {
				return fmt.Errorf("attachment %s: %w", attachments[i].Filename, err)
			}

			results[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrOCRFailed, err)
	}

	return strings.Join(results, "\n"), nil
}

func workerCount(limit, attachmentCount int) int {
	return max(min(limit, attachmentCount), 1)
}
