package domain

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
)

// FileNameHeader carries the source file name when the message key is empty.
const FileNameHeader = "file_name"

// ParsedFile is the result of decoding one BUFKIT file.
type ParsedFile struct {
	Source      string
	Soundings   []Sounding
	SkippedRows int // undecodable surface rows dropped during the merge
}

// ParseRawEvent decodes the BUFKIT file carried by raw into its soundings.
// The whole file fails if any upper-air record is malformed.
func ParseRawEvent(raw RawEvent) (ParsedFile, error) {
	source := SourceName(raw)

	d, err := Parse(string(raw.Value), source)
	if err != nil {
		return ParsedFile{Source: source}, fmt.Errorf("parse %s: %w", source, err)
	}

	it := d.Soundings()
	var soundings []Sounding
	for it.Next() {
		soundings = append(soundings, it.Sounding())
	}
	if err := it.Err(); err != nil {
		return ParsedFile{Source: source}, fmt.Errorf("parse %s: %w", source, err)
	}

	return ParsedFile{
		Source:      d.Source(),
		Soundings:   soundings,
		SkippedRows: it.SkippedRows(),
	}, nil
}

// SourceName is the base name of the file a message carries, taken from the
// message key or the file_name header.
func SourceName(raw RawEvent) string {
	name := strings.TrimSpace(string(raw.Key))
	if name == "" {
		name = strings.TrimSpace(raw.Headers[FileNameHeader])
	}
	if name == "" {
		return UnknownSource
	}
	return path.Base(name)
}

// EnrichSounding stamps the processing time.
func EnrichSounding(s Sounding) Sounding {
	s.ProcessedAt = clock.Now()
	return s
}

// SerializeSounding marshals a sounding into an output event keyed by its ID.
func SerializeSounding(s Sounding) (OutputEvent, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize sounding %s: %w", s.ID, err)
	}

	headers := map[string]string{
		"source":       s.Source,
		"valid_time":   s.ValidTime.Format(time.RFC3339),
		"processed_at": s.ProcessedAt.Format(time.RFC3339),
	}
	if s.Station.ID != nil {
		headers["station"] = *s.Station.ID
	}
	return OutputEvent{Key: []byte(s.ID), Value: data, Headers: headers}, nil
}
