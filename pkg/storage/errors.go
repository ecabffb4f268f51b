package storage

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested attachment blob does not exist.
	ErrNotFound = errors.New("attachment not found")
	// ErrEmptyKey indicates an empty attachment key was provided.
	ErrEmptyKey = errors.New("attachment key must not be empty")
	// ErrInvalidKey indicates the attachment key would escape the container.
	ErrInvalidKey = errors.New("attachment key contains invalid path segment")
)

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
