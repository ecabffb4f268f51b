package api

import (
	"github.com/casetrail/casetrail/internal/config"
	"github.com/casetrail/casetrail/internal/infrastructure"
	"github.com/casetrail/casetrail/internal/workflow"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Workflow *workflow.Runtime
}

// NewRuntime creates an API runtime with a module-scoped logger and the
// pipeline runtime shared by all case operations.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			OCR:       infra.OCR,
			Chat:      infra.Chat,
		},
		Workflow: &workflow.Runtime{
			Storage: infra.Storage,
			OCR:     infra.OCR,
			Chat:    infra.Chat,
			Model:   cfg.LLM.Model,
			Workers: cfg.OCR.Workers,
			Logger:  logger,
		},
	}
}
