package annotate

import (
	"errors"
	"fmt"
)

// ErrResponseTooShort reports that the replace policy could not trim the
// response and the file was left unchanged. Callers treat it as a skip, not a
// failure.
var ErrResponseTooShort = errors.New("response has too few lines to trim")

// APICallError represents a failure talking to the generation backend
type APICallError struct {
	Path    string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed for %s: %s", e.Path, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// FileError represents a failure reading or writing the annotated file
type FileError struct {
	Path  string
	Op    string
	Cause error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}
