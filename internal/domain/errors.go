package domain

import "errors"

// Parse failures. Callers match these with errors.Is; the wrapped message
// carries the key, column, or record that failed.
var (
	// ErrSectionBoundaryNotFound means the "STN YYMMDD/HHMM" surface marker is
	// absent, so the text cannot be a BUFKIT file.
	ErrSectionBoundaryNotFound = errors.New("surface section marker not found")

	// ErrUnterminatedBlock is a block inside a record or table that is missing
	// the blank line or data rows that should follow it.
	ErrUnterminatedBlock = errors.New("block not terminated")

	ErrMissingRequiredField  = errors.New("missing required field")
	ErrMissingRequiredColumn = errors.New("missing required column")
	ErrUnrecognizedColumn    = errors.New("unrecognized profile column")

	ErrMalformedKeyValue = errors.New("malformed key-value pair")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrInvalidNumber     = errors.New("invalid number")

	ErrInconsistentProfileLength = errors.New("inconsistent profile length")

	// ErrTokenCount is a trailing group with fewer tokens than there are
	// surface columns.
	ErrTokenCount = errors.New("incomplete token group")
	ErrRowDecode  = errors.New("surface row decode failed")
)
