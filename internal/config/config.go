package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Billing   BillingConfig
	Auth      AuthConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
	LogLevel   string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type BillingConfig struct {
	Provider     string // "paddle" or "midtrans"
	SuccessURL   string
	EventMemoTTL time.Duration
	Paddle       PaddleConfig
	Midtrans     MidtransConfig
}

type PaddleConfig struct {
	APIKey        string
	WebhookSecret string
	Sandbox       bool
	ProPriceID    string
}

type MidtransConfig struct {
	ServerKey    string
	IsProduction bool
	ProPrice     int64
	ProPeriod    time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Notekeeper"),
		},
		Billing: BillingConfig{
			Provider:     strings.ToLower(getEnv("BILLING_PROVIDER", "paddle")),
			SuccessURL:   getEnv("BILLING_SUCCESS_URL", "http://localhost:5173/billing/success"),
			EventMemoTTL: getEnvAsDuration("BILLING_EVENT_MEMO_TTL", 24*time.Hour),
			Paddle: PaddleConfig{
				APIKey:        getEnv("PADDLE_API_KEY", ""),
				WebhookSecret: getEnv("PADDLE_WEBHOOK_SECRET", ""),
				Sandbox:       getEnvAsBool("PADDLE_SANDBOX", true),
				ProPriceID:    getEnv("PADDLE_PRO_PRICE_ID", ""),
			},
			Midtrans: MidtransConfig{
				ServerKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
				IsProduction: getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),
				ProPrice:     int64(getEnvAsInt("MIDTRANS_PRO_PRICE", 49000)),
				ProPeriod:    getEnvAsDuration("MIDTRANS_PRO_PERIOD", 30*24*time.Hour),
			},
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "notekeeper-be"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

var ErrWildcardOrigin = errors.New("CORS_ALLOWED_ORIGINS cannot contain * because credentials are allowed")

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	origins := strings.Split(c.App.CorsAllowedOrigins, ",")
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			return ErrWildcardOrigin
		}
	}
	if strings.TrimSpace(c.App.CorsAllowedOrigins) == "" {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS is empty")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
