//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/bufkit-etl/internal/adapter/kafka"
	"github.com/couchcryptid/bufkit-etl/internal/config"
	"github.com/couchcryptid/bufkit-etl/internal/domain"
	"github.com/couchcryptid/bufkit-etl/internal/observability"
	"github.com/couchcryptid/bufkit-etl/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

// parsedMessage holds a deserialized message read from the sink topic.
type parsedMessage struct {
	Sounding domain.Sounding
	Key      string
	Headers  map[string]string
}

// readSounding reads a single message from the sink consumer and deserializes it.
func readSounding(ctx context.Context, t *testing.T, consumer *kafkago.Reader) parsedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var s domain.Sounding
	require.NoError(t, json.Unmarshal(msg.Value, &s), "unmarshal sink message")

	return parsedMessage{Sounding: s, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 2 * time.Second,
		MaxFileBytes:       8 << 20,
	}
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter verifies the adapter layer: a file published to the
// source topic is extracted, parsed, and its soundings published to the sink.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-reader")

	payload := loadFixture(t)
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte("gfs3_kmso.buf"),
		Value: payload,
	}))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	batch, err := reader.ExtractBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("gfs3_kmso.buf"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	parsed, err := pipeline.NewTransformer(nil, discardLogger()).Transform(ctx, raw)
	require.NoError(t, err)
	require.Len(t, parsed.Soundings, 2)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, parsed.Soundings))

	consumer := sinkConsumer(t, broker)
	first := readSounding(ctx, t, consumer)
	second := readSounding(ctx, t, consumer)

	assert.Equal(t, parsed.Soundings[0].ID, first.Key)
	assert.Equal(t, "KMSO", first.Headers["station"])
	assert.Equal(t, "2017-04-01T00:00:00Z", first.Headers["valid_time"])
	_, err = time.Parse(time.RFC3339, first.Headers["processed_at"])
	require.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, time.Date(2017, 4, 1, 1, 0, 0, 0, time.UTC), second.Sounding.ValidTime)
	assert.Equal(t, "gfs3_kmso.buf", second.Sounding.Source)
	require.NotNil(t, second.Sounding.Station.Num)
	assert.Equal(t, 727730, *second.Sounding.Station.Num)
}

// TestPipelineEndToEnd wires Reader → Transformer → Writer and verifies that a
// malformed file is skipped while the good files flow through.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	payload := loadFixture(t)
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("notes.txt"), Value: []byte("not a bufkit file")},
		kafkago.Message{Key: []byte("gfs3_kmso.buf"), Value: payload},
		kafkago.Message{Key: []byte("nam_kmso.buf"), Value: payload},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, pipeline.NewTransformer(nil, discardLogger()), writer, discardLogger(), metrics, 10)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	bySource := map[string]int{}
	ids := map[string]bool{}
	for range 4 {
		m := readSounding(ctx, t, consumer)
		bySource[m.Sounding.Source]++
		ids[m.Key] = true
	}

	// Nothing else arrives: the non-BUFKIT message was skipped.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	require.Error(t, err, "expected no fifth message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)

	assert.Equal(t, map[string]int{"gfs3_kmso.buf": 2, "nam_kmso.buf": 2}, bySource)
	assert.Len(t, ids, 4, "soundings from different files get different IDs")

	stats := p.Stats()
	assert.Equal(t, int64(3), stats.Files)
	assert.Equal(t, int64(1), stats.FailedFiles)
	assert.Equal(t, int64(4), stats.Soundings)
	require.NoError(t, p.CheckReadiness(ctx))
}
