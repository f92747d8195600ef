package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Odoo
	OdooURL      string
	OdooDB       string
	OdooUsername string
	OdooAPIKey   string

	// WooCommerce
	WooURL            string
	WooConsumerKey    string
	WooConsumerSecret string

	// Database
	DatabaseURL string

	// Redis (optional, enables the per-order lock)
	RedisURL string

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// API Configuration
	APIPort string
	APIHost string

	// Sync Configuration
	SyncIntervalSeconds int
	BatchSize           int
	RunRetentionDays    int

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		OdooURL:             getEnv("ODOO_URL", ""),
		OdooDB:              getEnv("ODOO_DB", ""),
		OdooUsername:        getEnv("ODOO_USERNAME", ""),
		OdooAPIKey:          getEnv("ODOO_API_KEY", ""),
		WooURL:              getEnv("WOO_URL", ""),
		WooConsumerKey:      getEnv("WOO_CONSUMER_KEY", ""),
		WooConsumerSecret:   getEnv("WOO_CONSUMER_SECRET", ""),
		DatabaseURL:         getEnv("DATABASE_URL", "sqlite://woosync.db"),
		RedisURL:            getEnv("REDIS_URL", ""),
		KafkaBrokers:        splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:          getEnv("KAFKA_TOPIC", "woo-sync-events"),
		KafkaGroupID:        getEnv("KAFKA_GROUP_ID", "woosync-worker"),
		APIPort:             getEnv("API_PORT", "8080"),
		APIHost:             getEnv("API_HOST", "0.0.0.0"),
		SyncIntervalSeconds: getEnvAsInt("SYNC_INTERVAL", 300),
		BatchSize:           getEnvAsInt("BATCH_SIZE", 50),
		RunRetentionDays:    getEnvAsInt("RUN_RETENTION_DAYS", 30),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the credentials both clients need are present.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"ODOO_URL", c.OdooURL},
		{"ODOO_DB", c.OdooDB},
		{"ODOO_USERNAME", c.OdooUsername},
		{"ODOO_API_KEY", c.OdooAPIKey},
		{"WOO_URL", c.WooURL},
		{"WOO_CONSUMER_KEY", c.WooConsumerKey},
		{"WOO_CONSUMER_SECRET", c.WooConsumerSecret},
	}

	var missing []string
	for _, v := range required {
		if strings.TrimSpace(v.value) == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
