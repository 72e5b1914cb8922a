package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerHost     string
	ShareSvcPort   string
	WebhookSvcPort string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string

	// Sessions
	SessionSecret string
	SessionIssuer string
	SessionTTL    time.Duration

	// OIDC (optional SSO)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Medical-history sharing
	ShareBaseDomain  string
	ShareTokenWindow time.Duration
	ShareSweepEvery  time.Duration

	// Verification throttle
	VerifyThrottleLimit  int
	VerifyThrottleWindow time.Duration

	// Webhooks
	WebhookSubscribersPath string
	WebhookInboundSecret   string
	WebhookDispatchTimeout time.Duration
}

func Load() *Config {
	return &Config{
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ShareSvcPort:   getEnv("SHARE_SERVICE_PORT", "8080"),
		WebhookSvcPort: getEnv("WEBHOOK_SERVICE_PORT", "8081"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "pawprint"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "pawprint123"),
		PostgresDB:       getEnv("POSTGRES_DB", "pawprint"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "pawprint-platform"),

		SessionSecret: getEnv("SESSION_SECRET", "pawprint-dev-session-secret"),
		SessionIssuer: getEnv("SESSION_ISSUER", "pawprint"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", ""),

		ShareBaseDomain:  getEnv("SHARE_BASE_DOMAIN", "app.pawprint.care"),
		ShareTokenWindow: getDuration("SHARE_TOKEN_WINDOW", 2*time.Hour),
		ShareSweepEvery:  getDuration("SHARE_SWEEP_EVERY", 15*time.Minute),

		VerifyThrottleLimit:  getIntEnv("VERIFY_THROTTLE_LIMIT", 30),
		VerifyThrottleWindow: getDuration("VERIFY_THROTTLE_WINDOW", time.Minute),

		WebhookSubscribersPath: getEnv("WEBHOOK_SUBSCRIBERS_PATH", ""),
		WebhookInboundSecret:   getEnv("WEBHOOK_INBOUND_SECRET", ""),
		WebhookDispatchTimeout: getDuration("WEBHOOK_DISPATCH_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
