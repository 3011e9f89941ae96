package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"codboost/internal/configs"
	"codboost/internal/delivery/kafka"
	"codboost/internal/models"
	"codboost/internal/notification"
	"codboost/internal/repository"
	"codboost/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.ConnectDB(postgres.Config{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		Username: cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DbName:   cfg.PostgresDB,
		SslMode:  cfg.PostgresSSLMode,
	})
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	defer func() {
		if derr := db.Close(); derr != nil {
			logrus.Errorf("db close: %v", derr)
		}
	}()

	repo := repository.NewRepository(db)
	notifier := notification.NewNotifier(settingsReader{repo}, notification.SMTPSender{})

	consumer := kafka.NewConsumer(kafka.Config{
		Brokers: cfg.KafkaBrokersSlice(),
		GroupID: cfg.KafkaGroupID,
		Topic:   cfg.KafkaEventsTopic,
		DLQ:     cfg.KafkaDLQTopic,
	}, notifier)
	defer func() {
		if cerr := consumer.Close(); cerr != nil {
			logrus.Errorf("kafka close: %v", cerr)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Subscribe(ctx); err != nil {
			logrus.Errorf("consumer stopped: %v", err)
			cancel()
		}
	}()
	logrus.Print("notifier subscription started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	cancel()
	wg.Wait()
	logrus.Print("notifier stopped")
}

// settingsReader narrows the repository to what the notifier needs.
type settingsReader struct {
	repo *repository.Repository
}

func (s settingsReader) GetSettings(shopDomain string) (models.Settings, error) {
	return s.repo.Settings.Get(shopDomain)
}
