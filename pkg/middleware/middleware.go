// Package middleware provides an ordered HTTP middleware stack with
// request logging and CORS implementations.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware. The first Use'd
// middleware sees the request first.
type System interface {
	Use(mw Middleware)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	chain []Middleware
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw Middleware) {
	s.chain = append(s.chain, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(s.chain) - 1; i >= 0; i-- {
		wrapped = s.chain[i](wrapped)
	}
	return wrapped
}
