package domain

import (
	"fmt"
	"strings"
)

// Each upper-air record opens with its station preamble. Files that omit the
// STID key start records at STNM instead.
const (
	recordMarker         = "STID"
	fallbackRecordMarker = "STNM"
)

// UpperAirSection is the upper-air block of a file: an optional parameter
// header (SNPARM, STNPRM) followed by consecutive records.
type UpperAirSection struct {
	text string
}

// NewUpperAirSection wraps the text preceding the surface table.
func NewUpperAirSection(text string) UpperAirSection {
	return UpperAirSection{text: text}
}

// Records returns a forward-only iterator over the records of the section.
func (s UpperAirSection) Records() *UpperAirIterator {
	marker := recordMarker
	if !strings.Contains(s.text, marker) {
		marker = fallbackRecordMarker
	}

	remaining := ""
	if idx := strings.Index(s.text, marker); idx >= 0 {
		remaining = s.text[idx:]
	}
	return &UpperAirIterator{remaining: remaining, marker: marker}
}

// Validate decodes every record and returns the first failure.
func (s UpperAirSection) Validate() error {
	it := s.Records()
	for it.Next() {
	}
	return it.Err()
}

// UpperAirIterator decodes one record per call to Next. A record that fails
// to decode ends the iteration; the failure is reported by Err.
type UpperAirIterator struct {
	remaining string
	marker    string
	ordinal   int
	current   UpperAir
	err       error
}

// Next advances to the next record. It returns false when the section is
// exhausted or a record failed to decode.
func (it *UpperAirIterator) Next() bool {
	if it.err != nil || strings.TrimSpace(it.remaining) == "" {
		it.remaining = ""
		return false
	}

	chunk := it.nextChunk()
	it.ordinal++

	ua, err := ParseUpperAir(chunk)
	if err != nil {
		it.err = fmt.Errorf("upper air record %d: %w", it.ordinal, err)
		it.remaining = ""
		return false
	}
	it.current = ua
	return true
}

// UpperAir returns the record decoded by the last successful Next.
func (it *UpperAirIterator) UpperAir() UpperAir { return it.current }

// Err returns the decode failure that stopped the iteration, if any.
func (it *UpperAirIterator) Err() error { return it.err }

// nextChunk cuts the text up to the following record marker, or everything
// left for the last record.
func (it *UpperAirIterator) nextChunk() string {
	next := strings.Index(it.remaining[len(it.marker):], it.marker)
	if next < 0 {
		chunk := it.remaining
		it.remaining = ""
		return chunk
	}
	end := len(it.marker) + next
	chunk := it.remaining[:end]
	it.remaining = it.remaining[end:]
	return chunk
}
