package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/segmentio/kafka-go"
)

// Publisher announces recorded transactions to downstream consumers.
type Publisher interface {
	PublishTransaction(ctx context.Context, tx domain.TransactionRecord) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishTransaction(ctx context.Context, tx domain.TransactionRecord) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction %s: %w", tx.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(tx.Reference), // one partition per checkout reference
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("transaction.recorded")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishTransaction(context.Context, domain.TransactionRecord) error { return nil }
func (Noop) Close() error                                                       { return nil }
