package core

import "errors"

// Common errors.
var (
	// ErrValidation reports a missing or malformed required field. The caller can fix
	// the input and retry.
	ErrValidation = errors.New("validation failed")

	// ErrDeserialization reports stored bytes that are not a valid collection.
	ErrDeserialization = errors.New("stored data is corrupt")

	// ErrQuotaExceeded reports a write that would push the store past its byte budget.
	// Nothing is written when it is returned.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrExport reports a report artifact that could not be generated.
	ErrExport = errors.New("export failed")

	// ErrDetection reports a failed detection call.
	ErrDetection = errors.New("detection failed")

	ErrNotFound  = errors.New("record not found")
	ErrNoSession = errors.New("no signed-in identity")
	ErrReadOnly  = errors.New("store is in read-only mode")
)
