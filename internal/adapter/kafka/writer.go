package kafka

import (
	"context"
	"log/slog"
	"slices"

	"github.com/couchcryptid/bufkit-etl/internal/config"
	"github.com/couchcryptid/bufkit-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces soundings to a Kafka topic as JSON.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic. Messages
// are hashed by key, so the soundings of one station and time always land on
// the same partition.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes the soundings and publishes them in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, soundings []domain.Sounding) error {
	if len(soundings) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(soundings))
	for i := range soundings {
		msg, err := serializeToMessage(soundings[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("published soundings", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage converts a sounding into a Kafka message. Headers are
// emitted in sorted key order.
func serializeToMessage(s domain.Sounding) (kafkago.Message, error) {
	out, err := domain.SerializeSounding(s)
	if err != nil {
		return kafkago.Message{}, err
	}

	keys := make([]string, 0, len(out.Headers))
	for k := range out.Headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	headers := make([]kafkago.Header, len(keys))
	for i, k := range keys {
		headers[i] = kafkago.Header{Key: k, Value: []byte(out.Headers[k])}
	}
	return kafkago.Message{Key: out.Key, Value: out.Value, Headers: headers}, nil
}
