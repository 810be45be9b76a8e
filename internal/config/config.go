package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig aggregates runtime configuration, injected through environment
// variables so nothing is hardcoded into the binary.
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// Kafka cluster (comma separated), topic and consumer group for the
	// order-confirmation mail pipeline.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Redis Stream outbox: orders append mail events atomically, the relay
	// forwards them to Kafka asynchronously.
	MailEventStream   string
	MailEventGroup    string
	MailEventConsumer string

	// Payment gateway credentials and call budget.
	RazorpayBaseURL   string
	RazorpayKeyID     string
	RazorpayKeySecret string
	GatewayTimeout    time.Duration

	// Order placement rate limiting and the duplicate-submission lock TTL.
	OrderRateLimit   int
	OrderRateWindow  time.Duration
	PlacementLockTTL time.Duration

	// Confirmation mail settings; with an empty SMTPAddr the server falls
	// back to a log-only mailer.
	SMTPAddr string
	SMTPFrom string
	SMTPUser string
	SMTPPass string
}

// Load reads and validates configuration, falling back to defaults.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DBPath:            getEnv("DB_PATH", "tejcart.db"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           0,
		KafkaBrokers:      splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "tejcart-order-mails"),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "tejcart-mail-consumer"),
		MailEventStream:   getEnv("MAIL_EVENT_STREAM", "tejcart:mail_events"),
		MailEventGroup:    getEnv("MAIL_EVENT_GROUP", "tejcart-relay-group"),
		MailEventConsumer: getEnv("MAIL_EVENT_CONSUMER", "tejcart-relay-1"),
		RazorpayBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		GatewayTimeout:    10 * time.Second,
		OrderRateLimit:    100,
		OrderRateWindow:   time.Second,
		PlacementLockTTL:  30 * time.Second,
		SMTPAddr:          getEnv("SMTP_ADDR", ""),
		SMTPFrom:          getEnv("SMTP_FROM", "orders@tejcart.local"),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPass:          getEnv("SMTP_PASS", ""),
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	rateLimit, err := getEnvInt("ORDER_RATE_LIMIT", cfg.OrderRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid ORDER_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("ORDER_RATE_LIMIT must be > 0")
	}
	cfg.OrderRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("ORDER_RATE_WINDOW_SEC", int(cfg.OrderRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid ORDER_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("ORDER_RATE_WINDOW_SEC must be > 0")
	}
	cfg.OrderRateWindow = time.Duration(rateWindowSec) * time.Second

	gatewayTimeoutSec, err := getEnvInt("GATEWAY_TIMEOUT_SEC", int(cfg.GatewayTimeout.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid GATEWAY_TIMEOUT_SEC: %w", err)
	}
	if gatewayTimeoutSec <= 0 {
		return AppConfig{}, fmt.Errorf("GATEWAY_TIMEOUT_SEC must be > 0")
	}
	cfg.GatewayTimeout = time.Duration(gatewayTimeoutSec) * time.Second

	lockTTLSec, err := getEnvInt("PLACEMENT_LOCK_TTL_SEC", int(cfg.PlacementLockTTL.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid PLACEMENT_LOCK_TTL_SEC: %w", err)
	}
	if lockTTLSec <= 0 {
		return AppConfig{}, fmt.Errorf("PLACEMENT_LOCK_TTL_SEC must be > 0")
	}
	cfg.PlacementLockTTL = time.Duration(lockTTLSec) * time.Second

	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return AppConfig{}, fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return AppConfig{}, fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	if cfg.KafkaTopic == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_TOPIC must not be empty")
	}
	if cfg.KafkaGroupID == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_GROUP_ID must not be empty")
	}
	if cfg.MailEventStream == "" {
		return AppConfig{}, fmt.Errorf("MAIL_EVENT_STREAM must not be empty")
	}
	if cfg.MailEventGroup == "" {
		return AppConfig{}, fmt.Errorf("MAIL_EVENT_GROUP must not be empty")
	}
	if cfg.MailEventConsumer == "" {
		return AppConfig{}, fmt.Errorf("MAIL_EVENT_CONSUMER must not be empty")
	}

	return cfg, nil
}

// getEnv reads a string environment variable, returning fallback when unset.
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt reads an integer environment variable, returning fallback when unset.
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// splitCSV parses a comma separated string into a slice.
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
