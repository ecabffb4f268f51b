package module

import (
	"net/http"
	"strings"
)

// Router dispatches requests to mounted modules by path prefix, falling back
// to a native ServeMux for anything unprefixed, like the health endpoints.
type Router struct {
	modules []*Module
	native  *http.ServeMux
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{native: http.NewServeMux()}
}

// HandleNative registers a handler on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers a module. Mount order is match order.
func (r *Router) Mount(m *Module) {
	r.modules = append(r.modules, m)
}

// ServeHTTP dispatches to the first module whose prefix matches a whole
// path segment, or to the fallback mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := normalizePath(req)

	for _, m := range r.modules {
		if matchesPrefix(path, m.prefix) {
			m.Serve(w, req)
			return
		}
	}

	r.native.ServeHTTP(w, req)
}

// matchesPrefix reports whether prefix covers path up to a segment boundary,
// so "/api" matches "/api" and "/api/cases" but not "/apix".
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}

func normalizePath(req *http.Request) string {
	path := req.URL.Path
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
		req.URL.Path = path
	}
	return path
}
