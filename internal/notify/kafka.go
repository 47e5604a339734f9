// Package notify publishes per-asset batch outcomes for downstream
// monitoring. Publishing is optional; batches run fine without it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/hydroclim/wapor-fetch/internal/pipeline"
)

// Writer produces one message per processed asset to a Kafka topic.
// It implements pipeline.ResultSink.
type Writer struct {
	writer *kafkago.Writer
	mapset string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the given brokers and topic.
func NewWriter(brokers []string, topic, mapset string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Writer{writer: w, mapset: mapset, logger: logger}
}

// Publish serializes one pipeline result and writes it to the topic.
func (w *Writer) Publish(ctx context.Context, res pipeline.Result) error {
	msg, err := serializeResult(w.mapset, res)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// OutcomeEvent is the wire format of one published result.
type OutcomeEvent struct {
	Mapset      string    `json:"mapset"`
	Asset       string    `json:"asset"`
	Date        string    `json:"date"`
	Outcome     string    `json:"outcome"`
	Stage       string    `json:"stage,omitempty"`
	Error       string    `json:"error,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// serializeResult marshals a pipeline result into a Kafka message keyed by
// asset identifier.
func serializeResult(mapset string, res pipeline.Result) (kafkago.Message, error) {
	event := OutcomeEvent{
		Mapset:      mapset,
		Asset:       res.Asset.Record.Identifier,
		Date:        res.Asset.Date.Format("2006-01-02"),
		Outcome:     res.Outcome.String(),
		Stage:       string(res.Stage),
		ProcessedAt: time.Now().UTC(),
	}
	if res.Err != nil {
		event.Error = res.Err.Error()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize outcome event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Asset),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "mapset", Value: []byte(mapset)},
			{Key: "outcome", Value: []byte(event.Outcome)},
		},
	}, nil
}
