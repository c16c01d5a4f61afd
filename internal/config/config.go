package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	CompanyName    string
	UseMemoryQueue bool
	WorkerCount    int

	// WhatsApp Cloud API credentials
	WhatsAppToken     string
	PhoneNumberID     string
	WebhookVerifyTkn  string
	GraphAPIBaseURL   string
	SendTimeout       time.Duration
	DeliveryRetryMax  int
	DeliveryRetryBase time.Duration

	// Session storage
	SessionBackend string // "memory" or "redis"
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	// Interaction log
	InteractionLogCapacity int

	// Analytics access
	AdminJWTSecret string

	// HTTP surface
	CORSAllowedOrigins []string
	WebhookRatePerSec  float64
	WebhookBurst       int

	// AWS / queue / archive
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	TurnQueueURL        string
	TicketArchiveTable  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CompanyName:    getEnv("COMPANY_NAME", "Pensionworks"),
		UseMemoryQueue: getEnvAsBool("USE_MEMORY_QUEUE", false),
		WorkerCount:    getEnvAsInt("WORKER_COUNT", 2),

		WhatsAppToken:     getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:     getEnv("PHONE_NUMBER_ID", ""),
		WebhookVerifyTkn:  getEnv("VERIFY_TOKEN", ""),
		GraphAPIBaseURL:   getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/v18.0"),
		SendTimeout:       getEnvAsDuration("SEND_TIMEOUT", 10*time.Second),
		DeliveryRetryMax:  getEnvAsInt("DELIVERY_RETRY_MAX", 0),
		DeliveryRetryBase: getEnvAsDuration("DELIVERY_RETRY_BASE", 2*time.Second),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		InteractionLogCapacity: getEnvAsInt("INTERACTION_LOG_CAPACITY", 1000),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		WebhookRatePerSec:  getEnvAsFloat("WEBHOOK_RATE_PER_SEC", 0),
		WebhookBurst:       getEnvAsInt("WEBHOOK_BURST", 10),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		TurnQueueURL:        getEnv("TURN_QUEUE_URL", ""),
		TicketArchiveTable:  getEnv("TICKET_ARCHIVE_TABLE", "ticket_archive"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable into a slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
