package cases

import (
	"context"
)

// System defines the public contract for case domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Process(ctx context.Context, cmd ProcessCommand) (*CaseRecord, error)
	Find(ctx context.Context, id string) (*CaseRecord, error)
	List(ctx context.Context, caseID string, limit int) ([]CaseRecord, error)
}
