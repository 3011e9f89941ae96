package kafka

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoff(t *testing.T) {
	base := 200 * time.Millisecond

	require.Equal(t, time.Duration(0), backoff(0, base))
	require.Equal(t, 200*time.Millisecond, backoff(1, base))
	require.Equal(t, 400*time.Millisecond, backoff(2, base))
	require.Equal(t, 800*time.Millisecond, backoff(3, base))
	require.Equal(t, 5*time.Second, backoff(10, base), "backoff is capped")
}

func TestTrimErr(t *testing.T) {
	require.Equal(t, "", trimErr(nil))
	require.Equal(t, "boom", trimErr(errors.New("boom")))

	long := errors.New(strings.Repeat("x", 2000))
	require.Len(t, trimErr(long), 1000)
}

func TestNewConsumer_Defaults(t *testing.T) {
	c := NewConsumer(Config{
		Brokers: []string{"localhost:9092"},
		GroupID: "cod-notifier",
		Topic:   "cod-order-events",
	}, nil)
	defer c.Close()

	require.Equal(t, 5, c.cfg.MaxRetries)
	require.Equal(t, 200*time.Millisecond, c.cfg.BaseBackoff)
	require.Nil(t, c.dlq, "no DLQ topic, no DLQ writer")
}
