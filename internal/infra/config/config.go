package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	StorageMode        string
	MongoURI           string
	MongoDB            string
	MongoTransactions  bool
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	StripeSecretKey    string
	PaymentCurrency    string
	S3Endpoint         string
	S3PublicEndpoint   string
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3UseSSL           bool
	CORSOrigins        []string
	BookingSurcharge   decimal.Decimal
	DefaultBasePrice   decimal.Decimal
	ProductFixtures    string
}

// Load parses configuration from the current environment. Nothing is
// required: without MONGODB_URI the service runs on in-memory storage.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":5000"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		MongoDB:          getEnv("MONGO_DB", "boiler-quotes"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		PaymentCurrency:  strings.ToLower(getEnv("PAYMENT_CURRENCY", "gbp")),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "boiler-images"),
		ProductFixtures:  os.Getenv("PRODUCT_FIXTURES"),
	}
	cfg.StorageMode = strings.ToLower(getEnv("STORAGE_MODE", ""))
	if cfg.StorageMode == "" {
		cfg.StorageMode = StorageMemory
		if cfg.MongoURI != "" {
			cfg.StorageMode = StorageMongo
		}
	}
	switch cfg.StorageMode {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGODB_URI is required when STORAGE_MODE=%s", StorageMongo)
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
	}

	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "*"))

	var err error
	if cfg.MongoTransactions, err = parseBoolEnv("MONGO_TRANSACTIONS", false); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	for _, raw := range splitList(getEnv("RETRY_BACKOFF", "1s,5s,30s")) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}
	if cfg.BookingSurcharge, err = parseDecimalEnv("BOOKING_SURCHARGE", decimal.NewFromInt(85)); err != nil {
		return Config{}, err
	}
	if cfg.DefaultBasePrice, err = parseDecimalEnv("DEFAULT_BASE_PRICE", decimal.NewFromInt(2600)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when Load fails.
func Defaults() Config {
	return Config{
		Env:                "dev",
		HTTPAddr:           ":5000",
		StorageMode:        StorageMemory,
		MongoDB:            "boiler-quotes",
		OutboxPollInterval: 500 * time.Millisecond,
		RetryBackoff:       []time.Duration{time.Second, 5 * time.Second, 30 * time.Second},
		PaymentCurrency:    "gbp",
		S3Bucket:           "boiler-images",
		CORSOrigins:        []string{"*"},
		BookingSurcharge:   decimal.NewFromInt(85),
		DefaultBasePrice:   decimal.NewFromInt(2600),
	}
}

func (c Config) UsesMongo() bool { return c.StorageMode == StorageMongo }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}

func parseDecimalEnv(key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s decimal: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s decimal: must not be negative", key)
	}
	return d, nil
}
