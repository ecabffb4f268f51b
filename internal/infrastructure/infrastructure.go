// Package infrastructure builds the process-wide clients once at startup:
// logger, database pool, attachment store, OCR client, and chat client. The
// API module receives them by injection and never constructs its own.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/casetrail/casetrail/internal/config"
	"github.com/casetrail/casetrail/internal/ocr"
	"github.com/casetrail/casetrail/pkg/database"
	"github.com/casetrail/casetrail/pkg/lifecycle"
	"github.com/casetrail/casetrail/pkg/storage"
)

// Infrastructure carries the shared clients and the lifecycle coordinator
// that ties their startup and shutdown together.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	OCR       *ocr.Client
	Chat      *openai.Client
}

// New constructs every client from configuration without connecting
// anywhere; connections are made by the hooks Start registers.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		OCR:       ocr.New(&cfg.OCR, logger),
		Chat:      cfg.LLM.Client(),
	}, nil
}

// Start registers the database and storage lifecycle hooks. The OCR and
// chat clients are plain HTTP clients with nothing to start.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
