package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/acmeshop/storefront/pkg/database"
)

// Config holds the full process configuration. It is loaded once in main
// and passed by reference to every component that needs it.
type Config struct {
	ServiceName   string
	Environment   string
	LogLevel      string
	HTTPPort      string
	Database      database.Config
	KafkaBrokers  []string
	RedisAddr     string
	JWTSecret     string
	JWTTTL        time.Duration
	JaegerEndpoint string

	// ShippingCostCAD is the flat shipping charge applied to every order.
	ShippingCostCAD float64

	// Webhook signing secrets per payment provider.
	StripeWebhookSecret string
	PayPalWebhookSecret string
}

// IsDevelopment reports whether the process runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from the environment
func Load() *Config {
	return &Config{
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "storefront"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KafkaBrokers:        strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:              24 * time.Hour,
		ShippingCostCAD:     getEnvFloat("SHIPPING_COST_CAD", 15.00),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PayPalWebhookSecret: getEnv("PAYPAL_WEBHOOK_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
