package domain

import (
	"fmt"
	"iter"
	"strings"
)

// surfaceMarker opens the surface table header and appears once per file.
const surfaceMarker = "STN YYMMDD/HHMM"

// UnknownSource names soundings parsed from text with no file name.
const UnknownSource = "Unknown File"

// Data is a BUFKIT file split into its upper-air and surface sections.
type Data struct {
	upperAir UpperAirSection
	surface  *SurfaceSection
	source   string
}

// Parse splits text at the surface table marker and decodes the surface
// header. Records are decoded lazily by Soundings. source names the file the
// text came from.
func Parse(text, source string) (*Data, error) {
	brk := strings.Index(text, surfaceMarker)
	if brk < 0 {
		return nil, fmt.Errorf("%w: %q not found", ErrSectionBoundaryNotFound, surfaceMarker)
	}

	surface, err := NewSurfaceSection(text[brk:])
	if err != nil {
		return nil, fmt.Errorf("surface section: %w", err)
	}

	if source == "" {
		source = UnknownSource
	}
	return &Data{
		upperAir: NewUpperAirSection(text[:brk]),
		surface:  surface,
		source:   source,
	}, nil
}

// Validate runs a full structural pass over text without building soundings.
func Validate(text string) error {
	d, err := Parse(text, "")
	if err != nil {
		return err
	}
	return d.Validate()
}

// Validate decodes every upper-air record and every surface row. Unlike
// Soundings it rejects surface rows that iteration would skip.
func (d *Data) Validate() error {
	if err := d.upperAir.Validate(); err != nil {
		return err
	}
	return d.surface.Validate()
}

// Source returns the name soundings are attributed to.
func (d *Data) Source() string { return d.source }

// Soundings returns a fresh iterator over the merged soundings of the file.
func (d *Data) Soundings() *SoundingIterator {
	return &SoundingIterator{
		upperAir: d.upperAir.Records(),
		surface:  d.surface.Rows(),
		source:   d.source,
	}
}

// SoundingIterator pairs upper-air records with surface rows whose valid
// times are equal. Both sections are expected in ascending time order;
// records without an exact match on the other side are dropped. Iteration
// stops when either side runs out or an upper-air record fails to decode.
type SoundingIterator struct {
	upperAir *UpperAirIterator
	surface  *SurfaceIterator
	source   string
	current  Sounding
	done     bool
}

// Next advances to the next matched pair.
func (it *SoundingIterator) Next() bool {
	if it.done {
		return false
	}
	if !it.upperAir.Next() || !it.surface.Next() {
		it.done = true
		return false
	}
	ua, sd := it.upperAir.UpperAir(), it.surface.Surface()

	for {
		for sd.ValidTime.Before(ua.ValidTime) {
			if !it.surface.Next() {
				it.done = true
				return false
			}
			sd = it.surface.Surface()
		}
		for ua.ValidTime.Before(sd.ValidTime) {
			if !it.upperAir.Next() {
				it.done = true
				return false
			}
			ua = it.upperAir.UpperAir()
		}
		if ua.ValidTime.Equal(sd.ValidTime) {
			it.current = combine(ua, sd, it.source)
			return true
		}
	}
}

// Sounding returns the record produced by the last successful Next.
func (it *SoundingIterator) Sounding() Sounding { return it.current }

// Err returns the upper-air decode failure that ended the iteration, if any.
// Surface rows that fail to decode are never reported here.
func (it *SoundingIterator) Err() error { return it.upperAir.Err() }

// SkippedRows returns how many surface rows were dropped as undecodable.
func (it *SoundingIterator) SkippedRows() int { return it.surface.Skipped() }

// All adapts the iterator to a range-over-func sequence. A fatal error is
// yielded once, as the last element.
func (it *SoundingIterator) All() iter.Seq2[Sounding, error] {
	return func(yield func(Sounding, error) bool) {
		for it.Next() {
			if !yield(it.Sounding(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(Sounding{}, err)
		}
	}
}
