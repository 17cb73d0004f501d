package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pubsub"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes matching requests to the matching topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewProducer connects a synchronous producer. It returns nil, nil when
// Kafka is not configured.
func NewProducer(logger logx.Logger, brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewProducerFrom(p, topic, logger), nil
}

// NewProducerFrom wraps an existing sarama producer.
func NewProducerFrom(p sarama.SyncProducer, topic string, logger logx.Logger) *Producer {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Producer{producer: p, topic: topic, logger: logger}
}

// SignalNewOrder publishes a new_order_for_matching event keyed by order id,
// so every event of one order lands on the same partition.
func (p *Producer) SignalNewOrder(ctx context.Context, req domain.MatchingRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	evt := pubsub.NewOrderEvent(pubsub.EventNewOrderForMatching, req.OrderID.String(), req.CreatedAt, req)
	body, err := json.Marshal(FromEvent(evt))
	if err != nil {
		return fmt.Errorf("marshal matching event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.OrderID),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("send matching event: %w (%w)", apperr.ErrUpstreamUnavailable, err)
	}
	p.logger.Debug("matching signal published",
		logx.String("order_id", evt.OrderID),
		logx.Int64("partition", int64(partition)),
		logx.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
