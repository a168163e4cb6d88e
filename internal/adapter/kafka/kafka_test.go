package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/bufkit-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("gfs3_kmso.buf"),
		Value:     []byte("SNPARM = PRES;TMPC"),
		Topic:     "raw-bufkit-files",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: domain.FileNameHeader, Value: []byte("gfs3_kmso.buf")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("gfs3_kmso.buf"), raw.Key)
	assert.Equal(t, "SNPARM = PRES;TMPC", string(raw.Value))
	assert.Equal(t, "raw-bufkit-files", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "gfs3_kmso.buf", raw.Headers[domain.FileNameHeader])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	station := "KMSO"
	s := domain.Sounding{
		ID:          "snd-1",
		Source:      "gfs3_kmso.buf",
		Station:     domain.Station{ID: &station},
		ValidTime:   time.Date(2017, 4, 1, 1, 0, 0, 0, time.UTC),
		ProcessedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(s)
	require.NoError(t, err)

	assert.Equal(t, []byte("snd-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"source":"gfs3_kmso.buf"`)
	assert.Equal(t, []kafkago.Header{
		{Key: "processed_at", Value: []byte("2026-01-15T12:00:00Z")},
		{Key: "source", Value: []byte("gfs3_kmso.buf")},
		{Key: "station", Value: []byte("KMSO")},
		{Key: "valid_time", Value: []byte("2017-04-01T01:00:00Z")},
	}, msg.Headers)
}

func TestSerializeToMessage_NoStationID(t *testing.T) {
	msg, err := serializeToMessage(domain.Sounding{ID: "snd-2"})
	require.NoError(t, err)

	for _, h := range msg.Headers {
		assert.NotEqual(t, "station", h.Key)
	}
	assert.Len(t, msg.Headers, 3)
}
