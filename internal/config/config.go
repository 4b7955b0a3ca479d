package config

import (
	"time"

	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI        string
	RedisAddr       string
	RabbitURL       string
	JWTSecret       string
	StripeSecretKey string
	Currency        string
	PendingTTL      time.Duration
	HTTPAddr        string
	OTLPEndpoint    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	pendingTTL, _ := time.ParseDuration(os.Getenv("PENDING_TTL"))
	if pendingTTL == 0 {
		pendingTTL = 24 * time.Hour
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "inr"
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return &Config{
		MongoURI:        os.Getenv("MONGO_URI"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RabbitURL:       os.Getenv("RABBIT_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Currency:        currency,
		PendingTTL:      pendingTTL,
		HTTPAddr:        addr,
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}
