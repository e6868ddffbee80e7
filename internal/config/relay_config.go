package config

import (
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the outbox relay service.
type RelayConfig struct {
	DatabaseURL string
	RabbitMQURL string
	QueueName   string
	HealthAddr  string
	LogLevel    string
}

func LoadRelayConfig() *RelayConfig {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL: dbURL,
		RabbitMQURL: rabbitURL,
		QueueName:   getenv("ACADEMY_EVENTS_QUEUE", "academy-events"),
		HealthAddr:  getenv("RELAY_HEALTH_ADDR", ":8090"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}
}
