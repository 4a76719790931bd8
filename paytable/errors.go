/*
errors.go - Error types for pay table loading

PURPOSE:
  Sources report every failure as a *LoadError so the Store can decide
  between fallback data and an "unavailable" notice without inspecting
  transport details.

ERROR CATEGORIES:
  1. Load errors - Transport failure, non-success status, missing document
  2. Document errors - Malformed JSON/YAML, rows without six steps

SEE ALSO:
  - store.go: Recovers from LoadError
  - source/: Produces LoadError
*/
package paytable

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrLoadFailed is the root of every *LoadError.
	ErrLoadFailed = errors.New("pay table load failed")

	// ErrMalformedDocument is returned when a document cannot be turned into a PayTable.
	ErrMalformedDocument = errors.New("malformed pay table document")

	// ErrTableNotFound is returned by sources that have no document for a year.
	ErrTableNotFound = errors.New("pay table not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// LoadError describes why a table could not be loaded for a year.
// StatusCode is the HTTP status for remote sources and 0 otherwise.
type LoadError struct {
	Year       YearKey
	StatusCode int
	Reason     string
	Err        error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("load pay table %s: HTTP %d %s", e.Year, e.StatusCode, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("load pay table %s: %s: %v", e.Year, e.Reason, e.Err)
	}
	return fmt.Sprintf("load pay table %s: %s", e.Year, e.Reason)
}

// Is lets errors.Is match ErrLoadFailed as well as the wrapped cause.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailed
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// AsLoadError wraps any error as a *LoadError for year, keeping existing ones.
func AsLoadError(year YearKey, err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	reason := "source error"
	switch {
	case errors.Is(err, ErrMalformedDocument):
		reason = "malformed document"
	case errors.Is(err, ErrTableNotFound):
		reason = "not found"
	}
	return &LoadError{Year: year, Reason: reason, Err: err}
}
