package domain

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawEvent(t *testing.T) {
	text, err := os.ReadFile("testdata/kmso.buf")
	require.NoError(t, err)

	t.Run("file name from key", func(t *testing.T) {
		parsed, err := ParseRawEvent(RawEvent{Key: []byte("bufkit/gfs3/gfs3_kmso.buf"), Value: text})
		require.NoError(t, err)

		assert.Equal(t, "gfs3_kmso.buf", parsed.Source)
		require.Len(t, parsed.Soundings, 2)
		assert.Equal(t, "gfs3_kmso.buf", parsed.Soundings[0].Source)
		assert.Zero(t, parsed.SkippedRows)
	})

	t.Run("file name from header", func(t *testing.T) {
		parsed, err := ParseRawEvent(RawEvent{
			Value:   text,
			Headers: map[string]string{FileNameHeader: "nam_kmso.buf"},
		})
		require.NoError(t, err)
		assert.Equal(t, "nam_kmso.buf", parsed.Source)
	})

	t.Run("unnamed", func(t *testing.T) {
		parsed, err := ParseRawEvent(RawEvent{Value: text})
		require.NoError(t, err)
		assert.Equal(t, UnknownSource, parsed.Source)
	})

	t.Run("not a bufkit file", func(t *testing.T) {
		parsed, err := ParseRawEvent(RawEvent{Key: []byte("notes.txt"), Value: []byte("hello")})
		require.ErrorIs(t, err, ErrSectionBoundaryNotFound)
		assert.Contains(t, err.Error(), "notes.txt")
		assert.Equal(t, "notes.txt", parsed.Source)
		assert.Empty(t, parsed.Soundings)
	})

	t.Run("malformed record fails the file", func(t *testing.T) {
		bad := strings.Replace(string(text), "PRES TMPC TMWC", "PRES XXXX TMWC", 1)
		_, err := ParseRawEvent(RawEvent{Key: []byte("bad.buf"), Value: []byte(bad)})
		require.ErrorIs(t, err, ErrUnrecognizedColumn)
	})
}

func TestEnrichSounding(t *testing.T) {
	fixed := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	result := EnrichSounding(Sounding{ID: "snd-1"})
	assert.Equal(t, fixed, result.ProcessedAt)
}

func TestSerializeSounding(t *testing.T) {
	id := "KMSO"
	s := Sounding{
		ID:          "3f1c",
		Source:      "gfs3_kmso.buf",
		Station:     Station{ID: &id},
		ValidTime:   time.Date(2017, 4, 1, 1, 0, 0, 0, time.UTC),
		ProcessedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	out, err := SerializeSounding(s)
	require.NoError(t, err)

	assert.Equal(t, []byte("3f1c"), out.Key)
	assert.Equal(t, map[string]string{
		"source":       "gfs3_kmso.buf",
		"station":      "KMSO",
		"valid_time":   "2017-04-01T01:00:00Z",
		"processed_at": "2026-01-15T12:00:00Z",
	}, out.Headers)
	assert.Contains(t, string(out.Value), `"valid_time":"2017-04-01T01:00:00Z"`)
}
