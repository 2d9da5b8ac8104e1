package documents

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrConflict      = errors.New("document is already being summarized")
	ErrValidation    = errors.New("validation error")
	ErrInvalidUpload = errors.New("invalid upload")
	ErrNoSummary     = errors.New("document has no summary")
	ErrNoSource      = errors.New("original upload not archived")
)

// ValidationError reports a store-level field violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidUploadError explains why an upload was rejected before extraction.
type InvalidUploadError struct {
	Reason string
}

func (e *InvalidUploadError) Error() string {
	return "invalid upload: " + e.Reason
}

func (e *InvalidUploadError) Unwrap() error { return ErrInvalidUpload }
