package ocr

import "errors"

// Sentinel errors for layout analysis operations.
var (
	ErrAnalyzeFailed    = errors.New("layout analysis failed")
	ErrMissingOperation = errors.New("analyze response missing Operation-Location header")
)
