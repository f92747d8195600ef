package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"woosync/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventTypeOrder    = "order.sync"
	EventTypeCustomer = "customer.sync"
)

// Event is one unit of sync work queued by a webhook.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// OrderKey keys all events for one order onto the same partition, so
// retried deliveries of the same webhook are processed in order instead of
// racing each other.
func OrderKey(orderID int64) string {
	return fmt.Sprintf("order:%d", orderID)
}

func CustomerKey(customerID int64) string {
	return fmt.Sprintf("customer:%d", customerID)
}

type Producer struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		logger: log,
	}
}

// Publish enqueues one event under the given partition key.
func (p *Producer) Publish(ctx context.Context, key, eventType string, payload json.RawMessage) error {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		p.logger.Error("Failed to publish %s event: %v", eventType, err)
		return err
	}

	p.logger.Debug("Published %s event %s (key %s)", eventType, event.ID, key)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func NewReader(brokers []string, groupID, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})
}
