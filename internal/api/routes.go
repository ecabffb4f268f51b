package api

import (
	"net/http"

	"github.com/casetrail/casetrail/internal/config"
	"github.com/casetrail/casetrail/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Cases.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)

	storage := newStorageHandler(runtime.Storage, runtime.Logger)
	routes.Register(mux, storage.routes())
}
