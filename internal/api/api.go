// Package api assembles the case-processing API: the workflow runtime, the
// domain systems built on it, and their routes mounted under the base path.
package api

import (
	"net/http"

	"github.com/casetrail/casetrail/internal/config"
	"github.com/casetrail/casetrail/internal/infrastructure"
	"github.com/casetrail/casetrail/pkg/middleware"
	"github.com/casetrail/casetrail/pkg/module"
)

// NewModule wires runtime, domain, and routes into a mountable module with
// CORS and request logging applied.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
