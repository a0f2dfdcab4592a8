package documents

import "errors"

var (
	// ErrNoArchive is returned by lookups when no archive is configured.
	ErrNoArchive = errors.New("document archive is not configured")
	// ErrNotFound is returned when an archived document does not exist.
	ErrNotFound = errors.New("document not found")
)
