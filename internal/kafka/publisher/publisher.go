// Package publisher emits callback status and DLQ events to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/models"
)

var errProducerNotInitialised = errors.New("kafka publisher: producer not initialised")

// SyncProducer captures the subset of producer behaviour the publishers
// require.
type SyncProducer interface {
	PublishSync(topic string, key []byte, headers map[string][]byte, payload []byte) error
}

// StatusPublisher emits callback status events to a Kafka topic.
type StatusPublisher struct {
	producer SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewStatusPublisher constructs a StatusPublisher instance.
func NewStatusPublisher(prod SyncProducer, topic string, logger zerolog.Logger) *StatusPublisher {
	if prod == nil {
		return nil
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &StatusPublisher{producer: prod, topic: topic, logger: logger}
}

// PublishStatus writes the supplied status event to Kafka synchronously.
// Events are keyed by order number so per-order status history stays in
// partition order.
func (p *StatusPublisher) PublishStatus(_ context.Context, event models.CallbackStatusEvent) error {
	if p == nil || p.producer == nil {
		return errProducerNotInitialised
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka publisher: marshal status event: %w", err)
	}

	headers := map[string][]byte{"content-type": []byte("application/json")}
	if err := p.producer.PublishSync(p.topic, []byte(event.OrderNumber), headers, payload); err != nil {
		return fmt.Errorf("kafka publisher: publish status event: %w", err)
	}
	return nil
}

// DLQPublisher writes failed callbacks to the configured DLQ topic.
type DLQPublisher struct {
	producer SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewDLQPublisher constructs a DLQPublisher instance.
func NewDLQPublisher(prod SyncProducer, topic string, logger zerolog.Logger) *DLQPublisher {
	if prod == nil {
		return nil
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &DLQPublisher{producer: prod, topic: topic, logger: logger}
}

// PublishDLQ writes the supplied DLQ record to Kafka synchronously.
func (p *DLQPublisher) PublishDLQ(_ context.Context, record models.CallbackDLQRecord) error {
	if p == nil || p.producer == nil {
		return errProducerNotInitialised
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("kafka publisher: marshal dlq record: %w", err)
	}

	headers := map[string][]byte{"content-type": []byte("application/json")}
	if err := p.producer.PublishSync(p.topic, []byte(record.OrderNumber), headers, payload); err != nil {
		return fmt.Errorf("kafka publisher: publish dlq record: %w", err)
	}
	return nil
}
