// Package workflow implements the case summarization pipeline. A linear
// state graph (resolve → ocr → extract → summarize) turns stored case
// attachments into structured fraud-investigation entities and a narrative
// summary.
package workflow

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrNoAttachments      = errors.New("no attachments found for case")
	ErrResolveFailed      = errors.New("attachment resolution failed")
	ErrOCRFailed          = errors.New("text extraction failed")
	ErrEntityFailed       = errors.New("entity extraction failed")
	ErrSummaryFailed      = errors.New("summary synthesis failed")
	ErrInvalidModelOutput = errors.New("model returned invalid JSON")
	ErrInvalidSummary     = errors.New("summary violates response schema")
)
