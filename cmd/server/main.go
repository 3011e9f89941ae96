package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"codboost/internal/configs"
	httpdelivery "codboost/internal/delivery/http"
	"codboost/internal/delivery/kafka"
	"codboost/internal/repository"
	"codboost/internal/repository/postgres"
	"codboost/internal/service"
	"codboost/internal/shopify"
)

// @title COD Boost API
// @version 1.0
// @description Cash-on-delivery order capture backend. Persists storefront COD submissions in postgres and mirrors them into Shopify as real orders, best-effort.

// @host localhost:8081
// @basePath /

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	logrus.Print("config parsed")

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
	if err := postgres.Migrate(db); err != nil {
		logrus.Fatalf("migrate: %s", err)
	}
	logrus.Print("connected to postgres")

	sessions := shopify.NewStaticSessionStore()
	sessions.Add(cfg.ShopifyShopDomain, cfg.ShopifyAccessToken)
	mirror := shopify.NewClient(cfg.ShopifyAPIVersion)

	events := kafka.NewPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaEventsTopic)
	defer func() {
		if cerr := events.Close(); cerr != nil {
			logrus.Errorf("events publisher close: %v", cerr)
		}
	}()

	repo := repository.NewRepository(db)
	svc := service.NewService(repo, mirror, sessions, events)

	h := httpdelivery.NewHandler(svc, svc, cfg.DevShopDomain)
	srv := new(httpdelivery.Server)

	go func() {
		if err := srv.Run(cfg.HTTPAddr, h.InitRoutes()); err != nil {
			logrus.Errorf("http run: %v", err)
			cancel()
		}
	}()
	logrus.Printf("http server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}
	logrus.Print("service stopped")
}
