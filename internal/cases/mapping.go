package cases

import (
	"encoding/json"
	"fmt"

	"github.com/casetrail/casetrail/pkg/repository"
)

const caseRecordColumns = `id, case_id, ocr_text, extracted_entities, summary_result, created_at`

// scanCaseRecord maps one case_records row. The entity and summary columns
// are JSONB and decode into their domain types after scanning.
func scanCaseRecord(s repository.Row) (CaseRecord, error) {
	var (
		rec      CaseRecord
		entities []byte
		summary  []byte
	)

	if err := s.Scan(
		&rec.ID,
		&rec.CaseID,
		&rec.OCRText,
		&entities,
		&summary,
		&rec.CreatedAt,
	); err != nil {
		return rec, err
	}

	if err := json.Unmarshal(entities, &rec.Entities); err != nil {
		return rec, fmt.Errorf("decode extracted_entities: %w", err)
	}

	if err := json.Unmarshal(summary, &rec.Summary); err != nil {
		return rec, fmt.Errorf("decode summary_result: %w", err)
	}

	return rec, nil
}
