package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
)

const TopicTicketsPurchased = "tickets.purchased"

type Producer struct {
	Writer *kafka.Writer
	Logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return &Producer{Writer: writer, Logger: log}
}

// PublishTicketPurchased streams the purchase event to Kafka, keyed by event id
func (p *Producer) PublishTicketPurchased(ctx context.Context, event models.TicketPurchasedEvent) error {
	msg, err := purchasedMessage(event)
	if err != nil {
		return err
	}

	p.Logger.Debug("KAFKA", fmt.Sprintf("Publishing to Kafka [%s]: %s", p.Writer.Topic, string(msg.Value)))

	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish ticket %s: %w", event.TicketID, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

func purchasedMessage(event models.TicketPurchasedEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode ticket purchased event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.EventID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("ticket_purchased")},
		},
	}, nil
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishTicketPurchased(ctx context.Context, event models.TicketPurchasedEvent) error {
	return nil
}
