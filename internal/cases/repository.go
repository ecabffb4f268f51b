package cases

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/casetrail/casetrail/internal/workflow"
	"github.com/casetrail/casetrail/pkg/repository"
	"github.com/casetrail/casetrail/pkg/storage"
)

type repo struct {
	db      *sql.DB
	storage storage.System
	runtime *workflow.Runtime
	logger  *slog.Logger
}

// New creates a case repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	runtime *workflow.Runtime,
	logger *slog.Logger,
) System {
	return &repo{
		db:      db,
		storage: store,
		runtime: runtime,
		logger:  logger.With("system", "cases"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

// Process stores any submitted attachments under the case prefix, runs the
// analysis pipeline against everything stored there, and persists the result
// as a new case record.
func (r *repo) Process(ctx context.Context, cmd ProcessCommand) (*CaseRecord, error) {
	caseID := strings.TrimSpace(cmd.CaseID)
	if caseID == "" {
		return nil, ErrMissingCaseID
	}

	for _, up := range cmd.Uploads {
		key := buildStorageKey(caseID, up.Filename)
		if err := r.storage.Upload(ctx, key, bytes.NewReader(up.Data), up.ContentType); err != nil {
			return nil, fmt.Errorf("upload attachment %s: %w", key, err)
		}
		r.logger.InfoContext(ctx, "attachment stored", "key", key, "size_bytes", len(up.Data))
	}

	keys, err := r.storage.List(ctx, caseID+"/")
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	if len(keys) == 0 {
		return nil, workflow.ErrNoAttachments
	}

	result, err := workflow.Execute(ctx, r.runtime, caseID, cmd.Metadata)
	if err != nil {
		return nil, err
	}

	rec, err := r.persist(ctx, result)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(
		ctx, "case processed",
		"id", rec.ID,
		"case_id", rec.CaseID,
		"attachments", result.AttachmentCount,
		"risk_level", rec.Summary.RiskLevel,
	)
	return rec, nil
}

func (r *repo) persist(ctx context.Context, result *workflow.PipelineResult) (*CaseRecord, error) {
	q, args, err := upsertCaseRecord(result)
	if err != nil {
		return nil, err
	}

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (CaseRecord, error) {
		return repository.QueryOne(ctx, tx, scanCaseRecord, q, args...)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &rec, nil
}

// upsertCaseRecord builds the insert statement for a pipeline result. The
// record timestamp is the pipeline's capture time, not the database clock.
func upsertCaseRecord(result *workflow.PipelineResult) (string, []any, error) {
	entities, err := json.Marshal(result.Entities)
	if err != nil {
		return "", nil, fmt.Errorf("encode extracted_entities: %w", err)
	}

	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return "", nil, fmt.Errorf("encode summary_result: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO case_records(id, case_id, ocr_text, extracted_entities, summary_result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			ocr_text = EXCLUDED.ocr_text,
			extracted_entities = EXCLUDED.extracted_entities,
			summary_result = EXCLUDED.summary_result,
			created_at = EXCLUDED.created_at
		RETURNING %s`, caseRecordColumns)

	args := []any{
		buildRecordID(result.CaseID),
		result.CaseID,
		result.OCRText,
		entities,
		summary,
		result.CompletedAt,
	}

	return q, args, nil
}

func (r *repo) Find(ctx context.Context, id string) (*CaseRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM case_records WHERE id = $1", caseRecordColumns)

	rec, err := repository.QueryOne(ctx, r.db, scanCaseRecord, q, id)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) List(ctx context.Context, caseID string, limit int) ([]CaseRecord, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return nil, ErrMissingCaseID
	}

	q := fmt.Sprintf(`
		SELECT %s FROM case_records
		WHERE case_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, caseRecordColumns)

	recs, err := repository.QueryMany(ctx, r.db, scanCaseRecord, q, caseID, limit)
	if err != nil {
		return nil, fmt.Errorf("query case records: %w", err)
	}
	return recs, nil
}

// buildRecordID derives a unique record id from the case id so repeated runs
// of the same case accumulate instead of overwriting each other.
func buildRecordID(caseID string) string {
	return fmt.Sprintf("%s-%s", caseID, uuid.NewString())
}

func buildStorageKey(caseID, filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = strings.TrimLeft(filename, "/")
	if filename == "" {
		filename = "attachment"
	}
	return fmt.Sprintf("%s/%s", caseID, filename)
}
