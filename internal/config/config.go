package config

import (
	"os"
	"strings"
)

type Config struct {
	MongoURI     string
	DatabaseName string
	ListenAddr   string

	JWTSecret []byte

	StripeKey           string
	StripeWebhookSecret string

	// ReleaseStockOnPaymentFailure controls whether a terminal failed
	// payment gives committed stock back automatically. The historical
	// behavior is to keep it committed for manual follow-up.
	ReleaseStockOnPaymentFailure bool

	KafkaBrokers []string
	CORSOrigins  []string
}

func FromEnv() Config {
	mongoURI := os.Getenv("MONGO_PUBLIC_URL")
	if mongoURI == "" {
		mongoURI = os.Getenv("MONGO_URL")
	}
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	cfg := Config{
		MongoURI:                     mongoURI,
		DatabaseName:                 envOr("MONGO_DB", "jewelmart"),
		ListenAddr:                   ":" + envOr("PORT", "8080"),
		JWTSecret:                    []byte(envOr("JWT_SECRET", "SECRET")),
		StripeKey:                    os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:          os.Getenv("STRIPE_WEBHOOK_SECRET"),
		ReleaseStockOnPaymentFailure: os.Getenv("RELEASE_STOCK_ON_PAYMENT_FAILURE") == "true",
		KafkaBrokers:                 splitCSV(os.Getenv("KAFKA_BROKERS")),
		CORSOrigins:                  splitCSV(envOr("CORS_ORIGINS", "http://localhost:5173")),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
