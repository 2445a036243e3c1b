package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yourorg/egx-collector/internal/config"
	"github.com/yourorg/egx-collector/internal/model"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes collection lifecycle events. A nil *Producer is a
// valid no-op publisher, used when Kafka is disabled in config.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer creates a new collection event producer, or nil when
// disabled
func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) *Producer {
	if !cfg.Enabled {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Transport: &kafka.Transport{
			ClientID: cfg.ClientID,
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// PublishCollectionEvent publishes one event per collection run, keyed by
// data kind. Publish failures are logged, never propagated: eventing must
// not fail a collection that already persisted.
func (p *Producer) PublishCollectionEvent(ctx context.Context, event model.CollectionEvent) {
	if p == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal collection event",
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.Kind),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish collection event",
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
		return
	}

	p.logger.Debug("Collection event published",
		zap.String("kind", string(event.Kind)),
		zap.Bool("success", event.Success))
}

// Close closes the underlying writer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
