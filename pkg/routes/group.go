package routes

import (
	"fmt"
	"net/http"
)

// Group organizes routes under a common prefix. Children nest beneath the
// parent prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register walks the given groups and registers every route onto the mux
// with a method-qualified pattern.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.register(mux, "")
	}
}

func (g Group) register(mux *http.ServeMux, parent string) {
	prefix := parent + g.Prefix

	for _, r := range g.Routes {
		mux.HandleFunc(fmt.Sprintf("%s %s%s", r.Method, prefix, r.Pattern), r.Handler)
	}
	for _, child := range g.Children {
		child.register(mux, prefix)
	}
}
