// Package cases implements the investigation case domain for Casetrail.
// It provides types, data access, and business logic for attachment
// intake, pipeline execution, and persistence of case analysis records.
package cases

import (
	"time"

	"github.com/casetrail/casetrail/internal/workflow"
)

// CaseRecord is a persisted analysis of one investigation case run. A case
// may accumulate multiple records over time; each run produces a new record
// keyed by a unique derived id.
type CaseRecord struct {
	ID        string                 `json:"id"`
	CaseID    string                 `json:"case_id"`
	OCRText   string                 `json:"ocr_text"`
	Entities  workflow.Entities      `json:"extracted_entities"`
	Summary   workflow.SummaryRecord `json:"summary_result"`
	CreatedAt time.Time              `json:"created_at"`
}

// Upload carries one file submitted alongside a process request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProcessCommand carries everything needed to run the analysis pipeline for
// a case. Uploads are optional; when empty the pipeline runs against the
// attachments already stored under the case prefix.
type ProcessCommand struct {
	CaseID   string
	Uploads  []Upload
	Metadata workflow.CaseMetadata
}
