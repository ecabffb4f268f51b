// Package module provides prefix-mounted HTTP modules, each with its own
// inner router and middleware stack.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casetrail/casetrail/pkg/middleware"
)

// Module serves everything under a single path prefix through an inner
// router that sees prefix-relative paths.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module for a single-level prefix such as "/api". An invalid
// prefix is a wiring mistake, so it panics.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the inner router wrapped with the module's middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve rewrites the request path relative to the prefix and dispatches to
// the inner router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	scoped := req.Clone(req.Context())
	scoped.URL.Path = relativePath(req.URL.Path, m.prefix)
	scoped.URL.RawPath = ""
	m.Handler().ServeHTTP(w, scoped)
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

func relativePath(path, prefix string) string {
	rel := strings.TrimPrefix(path, prefix)
	if rel == "" {
		return "/"
	}
	return rel
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix required")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix %q must begin with /", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
