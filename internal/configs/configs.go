package configs

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8081"`

	// Development fallback when no X-Shopify-Shop-Domain header is present.
	DevShopDomain string `env:"DEV_SHOP_DOMAIN" envDefault:""`

	KafkaBrokers     string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEventsTopic string `env:"KAFKA_EVENTS_TOPIC" envDefault:"cod-order-events"`
	KafkaDLQTopic    string `env:"KAFKA_DLQ_TOPIC" envDefault:"cod-order-events_dlq"`
	KafkaGroupID     string `env:"KAFKA_GROUP_ID" envDefault:"cod-notifier"`

	ShopifyShopDomain  string `env:"SHOPIFY_SHOP_DOMAIN" envDefault:""`
	ShopifyAccessToken string `env:"SHOPIFY_ACCESS_TOKEN" envDefault:""`
	ShopifyAPIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2024-01"`

	DatabaseURL     string `env:"DATABASE_URL" envDefault:""`
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"codboost"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	return c, nil
}

func (c Config) KafkaBrokersSlice() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) PgDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPass,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}
