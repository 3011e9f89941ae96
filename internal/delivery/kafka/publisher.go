package kafka

import (
	"context"
	"encoding/json"
	"time"

	"codboost/internal/models"

	kafka "github.com/segmentio/kafka-go"
)

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return &Publisher{writer: w}
}

// PublishOrderEvent keys messages by shop domain so one shop's events stay
// ordered within a partition.
func (p *Publisher) PublishOrderEvent(ctx context.Context, ev models.OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ShopDomain),
		Value: payload,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
