package ingestion

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when a file parses but yields no text.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// UnsupportedTypeError reports an upload whose format cannot be read.
type UnsupportedTypeError struct {
	MimeType string
	FileName string
}

func (e *UnsupportedTypeError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("unsupported file type %q (%s)", e.MimeType, e.FileName)
	}
	return fmt.Sprintf("unsupported file type %q", e.MimeType)
}

// ExtractError wraps a failure inside a format reader.
type ExtractError struct {
	Format string
	Cause  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract %s text: %v", e.Format, e.Cause)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}
