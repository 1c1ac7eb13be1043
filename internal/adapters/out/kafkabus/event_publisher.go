// Package kafkabus publishes status-change notifications to Kafka. The
// publisher is driven by the outbox relay, never called inside a transition
// transaction.
package kafkabus

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// statusChangedMessage is the wire form of one notification.
type statusChangedMessage struct {
	OrderID    string    `json:"order_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaEventPublisher implements ports.EventPublisher over a Kafka topic.
// Messages are keyed by order id so all events of one order land on the same
// partition in transition order.
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher creates a publisher for the given brokers and topic.
func NewKafkaEventPublisher(brokers []string, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish delivers one status-change notification.
func (p *KafkaEventPublisher) Publish(ctx context.Context, event order.StatusChanged) error {
	payload, err := json.Marshal(statusChangedMessage{
		OrderID:    event.OrderID.String(),
		From:       event.From.String(),
		To:         event.To.String(),
		ActorID:    event.ActorID.String(),
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

// Close releases the underlying writer.
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}
