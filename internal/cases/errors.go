package cases

import (
	"errors"
	"net/http"

	"github.com/casetrail/casetrail/internal/workflow"
)

// Domain errors for case operations.
var (
	ErrMissingCaseID  = errors.New("case_id is required")
	ErrNotFound       = errors.New("case record not found")
	ErrDuplicate      = errors.New("case record already exists")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrInvalidRequest = errors.New("invalid request")
)

// MapHTTPStatus maps case domain and pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingCaseID), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, workflow.ErrNoAttachments):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
