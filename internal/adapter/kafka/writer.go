// Package kafka publishes enriched rows to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/run-weather-etl/internal/config"
	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

const batchSize = 500

// Writer produces one message per enriched row.
// It implements pipeline.Loader.
type Writer struct {
	writer  *kafkago.Writer
	source  string
	now     func() time.Time
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic. Messages
// carry the input path in a "source" header.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{
		writer:  w,
		source:  cfg.InputPath,
		now:     time.Now,
		metrics: metrics,
		logger:  logger,
	}
}

// Load publishes every row in batches, keyed by row index.
func (w *Writer) Load(ctx context.Context, d domain.EnrichedDataset) error {
	processedAt := w.now().UTC()
	for start := 0; start < len(d.Rows); start += batchSize {
		end := min(start+batchSize, len(d.Rows))

		msgs := make([]kafkago.Message, 0, end-start)
		for i := start; i < end; i++ {
			msg, err := serializeToMessage(i, d.Header, d.Rows[i], w.source, processedAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish rows %d-%d: %w", start, end-1, err)
		}
		w.metrics.RecordsPublished.Add(float64(len(msgs)))
	}
	w.logger.Info("published enriched rows", "topic", w.writer.Topic, "rows", len(d.Rows))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a row as a JSON object of column name to cell.
// Empty cells become null.
func serializeToMessage(index int, header, row []string, source string, processedAt time.Time) (kafkago.Message, error) {
	record := make(map[string]any, len(header))
	for i, name := range header {
		var v any
		if i < len(row) && row[i] != "" {
			v = row[i]
		}
		record[name] = v
	}
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize row %d: %w", index, err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(index)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(source)},
			{Key: "processed_at", Value: []byte(processedAt.Format(time.RFC3339))},
		},
	}, nil
}
