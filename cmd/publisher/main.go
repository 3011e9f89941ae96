package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"codboost/internal/configs"
	"codboost/internal/delivery/kafka"
	"codboost/internal/models"
)

// Dev tool: replays an order event JSON file into the events topic so the
// notifier can be exercised without the full submission path.
func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}

	if len(os.Args) < 2 {
		logrus.Fatal("usage: publisher <order-event.json>")
	}

	body, err := os.ReadFile(os.Args[1])
	if err != nil {
		logrus.Fatalf("read event file: %s", err)
	}

	var ev models.OrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		logrus.Fatalf("decode event file: %s", err)
	}

	pub := kafka.NewPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaEventsTopic)
	defer func() {
		if cerr := pub.Close(); cerr != nil {
			logrus.Errorf("publisher close: %v", cerr)
		}
	}()

	if err := pub.PublishOrderEvent(context.Background(), ev); err != nil {
		logrus.Fatalf("publish failed: %s", err)
	}
	logrus.Printf("published %s event for order %d", ev.Type, ev.Order.ID)
}
