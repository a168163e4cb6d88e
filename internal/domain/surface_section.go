package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// SurfaceSection is the surface table: a header of column tags followed by
// rows of exactly one token per column. Rows may wrap across lines.
type SurfaceSection struct {
	rows    string
	columns SurfaceColumns
}

// NewSurfaceSection splits the header from the rows and decodes the header.
// The header ends at the first digit that follows whitespace.
func NewSurfaceSection(text string) (*SurfaceSection, error) {
	headerEnd := -1
	prev := 'x'
	for i, r := range text {
		if unicode.IsSpace(prev) && isDigit(r) {
			headerEnd = i
			break
		}
		prev = r
	}
	if headerEnd < 0 {
		return nil, fmt.Errorf("%w: surface table has no rows", ErrUnterminatedBlock)
	}

	cols, err := ParseSurfaceColumns(text[:headerEnd])
	if err != nil {
		return nil, err
	}
	return &SurfaceSection{
		rows:    strings.TrimSpace(text[headerEnd:]),
		columns: cols,
	}, nil
}

// Columns returns the decoded header layout.
func (s *SurfaceSection) Columns() SurfaceColumns { return s.columns }

// Rows returns a forward-only iterator over the decodable rows.
func (s *SurfaceSection) Rows() *SurfaceIterator {
	return &SurfaceIterator{remaining: s.rows, columns: s.columns}
}

// Validate is stricter than iteration: a truncated final row or a row that
// fails to decode is reported instead of skipped.
func (s *SurfaceSection) Validate() error {
	it := s.Rows()
	for row := 1; ; row++ {
		chunk, ok, err := it.nextChunk()
		if err != nil {
			return fmt.Errorf("surface row %d: %w", row, err)
		}
		if !ok {
			return nil
		}
		if _, err := s.columns.DecodeRow(chunk); err != nil {
			return fmt.Errorf("surface row %d: %w", row, err)
		}
	}
}

// SurfaceIterator yields surface rows in file order. Rows that fail to decode
// are skipped and counted; a truncated final row ends the iteration.
type SurfaceIterator struct {
	remaining string
	columns   SurfaceColumns
	current   Surface
	skipped   int
}

// Next advances to the next decodable row.
func (it *SurfaceIterator) Next() bool {
	for {
		chunk, ok, err := it.nextChunk()
		if err != nil {
			it.skipped++
			it.remaining = ""
			return false
		}
		if !ok {
			return false
		}

		sd, err := it.columns.DecodeRow(chunk)
		if err != nil {
			it.skipped++
			continue
		}
		it.current = sd
		return true
	}
}

// Surface returns the row decoded by the last successful Next.
func (it *SurfaceIterator) Surface() Surface { return it.current }

// Skipped returns how many rows were dropped so far, counting a truncated
// final row.
func (it *SurfaceIterator) Skipped() int { return it.skipped }

func (it *SurfaceIterator) nextChunk() (string, bool, error) {
	end, ok, err := findNextNTokens(it.remaining, it.columns.Len())
	if err != nil || !ok {
		return "", false, err
	}
	chunk := it.remaining[:end]
	it.remaining = it.remaining[end:]
	return chunk, true, nil
}
