package kafka

import (
	"context"
	"errors"
	"strconv"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// ErrNonRetryable marks handler failures that retrying cannot fix; the
// message goes straight to the DLQ.
var ErrNonRetryable = errors.New("non-retryable")

// Handler processes one consumed event payload.
type Handler interface {
	HandleMessage(ctx context.Context, payload []byte) error
}

type Config struct {
	Brokers     []string
	GroupID     string
	Topic       string
	DLQ         string
	MaxRetries  int
	BaseBackoff time.Duration
}

type Consumer struct {
	reader  *kafka.Reader
	dlq     *kafka.Writer
	handler Handler
	cfg     Config
}

func NewConsumer(cfg Config, handler Handler) *Consumer {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        100 * time.Millisecond,
		CommitInterval: 0,
	})

	var dlq *kafka.Writer
	if cfg.DLQ != "" {
		dlq = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.DLQ,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		}
	}

	return &Consumer{reader: r, dlq: dlq, handler: handler, cfg: cfg}
}

func (c *Consumer) Subscribe(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logrus.WithError(err).Error("kafka fetch failed")
			select {
			case <-time.After(300 * time.Millisecond):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		var last error
		handled := false
		for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
			err := c.handler.HandleMessage(ctx, m.Value)
			if err == nil {
				handled = true
				break
			}
			last = err
			if errors.Is(err, ErrNonRetryable) {
				break
			}
			time.Sleep(backoff(attempt, c.cfg.BaseBackoff))
		}

		if handled {
			if err := c.reader.CommitMessages(ctx, m); err != nil {
				logrus.WithError(err).WithField("offset", m.Offset).Error("commit failed")
			}
			continue
		}

		if c.dlq != nil {
			if ctx.Err() != nil {
				return nil
			}
			dlqMsg := kafka.Message{
				Key:   m.Key,
				Value: m.Value,
				Headers: append(m.Headers,
					kafka.Header{Key: "x-dlq-reason", Value: []byte(trimErr(last))},
					kafka.Header{Key: "x-dlq-attempts", Value: []byte(strconv.Itoa(c.cfg.MaxRetries + 1))},
					kafka.Header{Key: "x-dlq-ts", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
					kafka.Header{Key: "x-dlq-source-topic", Value: []byte(c.cfg.Topic)},
					kafka.Header{Key: "x-dlq-group", Value: []byte(c.cfg.GroupID)},
				),
			}
			if err := c.dlq.WriteMessages(ctx, dlqMsg); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logrus.WithError(err).WithField("offset", m.Offset).Error("DLQ write failed")
				time.Sleep(500 * time.Millisecond)
				continue
			}
		} else {
			logrus.WithError(last).WithField("offset", m.Offset).Error("DLQ disabled, dropping message")
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).WithField("offset", m.Offset).Error("commit after DLQ failed")
		}
	}
}

func (c *Consumer) Close() error {
	var first error
	if c.reader != nil {
		if err := c.reader.Close(); err != nil {
			first = err
		}
	}
	if c.dlq != nil {
		if err := c.dlq.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func backoff(n int, base time.Duration) time.Duration {
	if n <= 0 {
		return 0
	}
	d := base * (1 << (n - 1))
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func trimErr(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if len(s) > 1000 {
		return s[:1000]
	}
	return s
}
