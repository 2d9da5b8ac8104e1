package extract

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrExtractionFailed    = errors.New("extraction failed")
)

// UnsupportedFileTypeError names the MIME type that has no extractor.
type UnsupportedFileTypeError struct {
	MimeType string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %q", e.MimeType)
}

func (e *UnsupportedFileTypeError) Unwrap() error { return ErrUnsupportedFileType }

// ExtractionError carries the decoder failure for one format.
type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

// Is lets errors.Is match ErrExtractionFailed while Unwrap exposes the decoder error.
func (e *ExtractionError) Is(target error) bool { return target == ErrExtractionFailed }

func (e *ExtractionError) Unwrap() error { return e.Err }
