package workflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ResolveNode returns a state node that lists every blob under the case's
// storage prefix and downloads each fully into memory, tagged with its base
// filename. The storage listing order is preserved; it determines the
// concatenation order for all downstream stages.
func ResolveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		caseID, err := stateValue[string](s, KeyCaseID)
		if err != nil {
			return s, fmt.Errorf("resolve: %w", err)
		}

		attachments, err := resolveAttachments(ctx, rt, caseID)
		if err != nil {
			return s, fmt.Errorf("resolve: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "resolve node complete",
			"case_id", caseID,
			"attachment_count", len(attachments),
		)

		s = s.Set(KeyAttachments, attachments)
		return s, nil
	})
}

func resolveAttachments(ctx context.Context, rt *Runtime, caseID string) ([]Attachment, error) {
	prefix := caseID + "/"

	keys, err := rt.Storage.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}

	if len(keys) == 0 {
		return nil, ErrNoAttachments
	}

	attachments := make([]Attachment, 0, len(keys))
	for _, key := range keys {
		data, err := downloadAttachment(ctx, rt, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResolveFailed, err)
		}

		attachments = append(attachments, Attachment{
			Filename: baseFilename(key),
			Data:     data,
		})
	}

	return attachments, nil
}

func downloadAttachment(ctx context.Context, rt *Runtime, key string) ([]byte, error) {
	body, err := rt.Storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return data, nil
}

func baseFilename(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
