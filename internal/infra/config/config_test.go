package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "HTTP_ADDR", "STORAGE_MODE", "MONGODB_URI", "MONGO_DB", "MONGO_TRANSACTIONS",
	"KAFKA_BROKERS", "KAFKA_TOPIC_PREFIX", "OUTBOX_POLL_INTERVAL", "RETRY_BACKOFF",
	"STRIPE_SECRET_KEY", "PAYMENT_CURRENCY", "S3_ENDPOINT", "S3_PUBLIC_ENDPOINT", "S3_USE_SSL",
	"CORS_ORIGINS", "BOOKING_SURCHARGE", "DEFAULT_BASE_PRICE", "PRODUCT_FIXTURES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageMode)
	assert.False(t, cfg.UsesMongo())
	assert.Equal(t, "boiler-quotes", cfg.MongoDB)
	assert.Equal(t, "gbp", cfg.PaymentCurrency)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.True(t, cfg.BookingSurcharge.Equal(decimal.NewFromInt(85)))
	assert.True(t, cfg.DefaultBasePrice.Equal(decimal.NewFromInt(2600)))
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadMongoInferredFromURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("MONGO_TRANSACTIONS", "yes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UsesMongo())
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown storage":     {"STORAGE_MODE", "redis"},
		"mongo without uri":   {"STORAGE_MODE", "mongo"},
		"bad duration":        {"OUTBOX_POLL_INTERVAL", "soon"},
		"bad backoff":         {"RETRY_BACKOFF", "1s,later"},
		"bad bool":            {"S3_USE_SSL", "maybe"},
		"bad surcharge":       {"BOOKING_SURCHARGE", "£85"},
		"negative base price": {"DEFAULT_BASE_PRICE", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadSurchargeOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKING_SURCHARGE", "99.50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "99.5", cfg.BookingSurcharge.String())
}
