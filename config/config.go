package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Redis configuration (nonce and session store)
	RedisAddr string

	// Kafka configuration (results feed)
	KafkaBrokers   string
	ResultsTopic   string
	BetEventsTopic string
	FeedGroupID    string
	FeedEnabled    bool

	// HTTP configuration
	ListenAddr  string
	MetricsAddr string
	CORSOrigins []string

	// Betting limits, in cents of USDC
	MinStake int64
	MaxStake int64

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, reading a .env file
// first when present
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers:   envOr("KAFKA_BROKERS", "localhost:9092"),
		ResultsTopic:   envOr("KAFKA_RESULTS_TOPIC", "match_results"),
		BetEventsTopic: envOr("KAFKA_BET_EVENTS_TOPIC", "bet_events"),
		FeedGroupID:    envOr("KAFKA_FEED_GROUP_ID", "settlement-engine"),
		FeedEnabled:    os.Getenv("KAFKA_FEED_ENABLED") != "false",

		ListenAddr:  envOr("LISTEN_ADDR", ":8080"),
		MetricsAddr: envOr("METRICS_ADDR", ":9090"),
		CORSOrigins: []string{envOr("CORS_ORIGIN", "http://localhost:3000")},

		// $1 minimum, $10,000 maximum
		MinStake: 100,
		MaxStake: 1000000,

		Environment: envOr("ENVIRONMENT", "development"),
	}

	if min := os.Getenv("MIN_STAKE"); min != "" {
		if parsed, err := strconv.ParseInt(min, 10, 64); err == nil {
			config.MinStake = parsed
		}
	}
	if max := os.Getenv("MAX_STAKE"); max != "" {
		if parsed, err := strconv.ParseInt(max, 10, 64); err == nil {
			config.MaxStake = parsed
		}
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
