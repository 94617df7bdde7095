package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DB_DRIVER", "BILLING_PROVIDER", "BILLING_EVENT_MEMO_TTL", "PADDLE_SANDBOX", "SMTP_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "paddle", cfg.Billing.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Billing.EventMemoTTL)
	assert.True(t, cfg.Billing.Paddle.Sandbox)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("BILLING_PROVIDER", "Midtrans")
	t.Setenv("BILLING_EVENT_MEMO_TTL", "90m")
	t.Setenv("MIDTRANS_PRO_PRICE", "99000")
	t.Setenv("MIDTRANS_IS_PRODUCTION", "true")
	t.Setenv("OTEL_ENABLED", "1")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "midtrans", cfg.Billing.Provider)
	assert.Equal(t, 90*time.Minute, cfg.Billing.EventMemoTTL)
	assert.Equal(t, int64(99000), cfg.Billing.Midtrans.ProPrice)
	assert.True(t, cfg.Billing.Midtrans.IsProduction)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("PADDLE_SANDBOX", "maybe")
	t.Setenv("MIDTRANS_PRO_PERIOD", "a month")

	cfg := Load()

	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.Billing.Paddle.Sandbox)
	assert.Equal(t, 30*24*time.Hour, cfg.Billing.Midtrans.ProPeriod)
}

func TestValidateCorsOrigins(t *testing.T) {
	tests := []struct {
		origins string
		wantErr bool
	}{
		{"https://app.example.com", false},
		{"https://a.example.com, https://b.example.com", false},
		{"*", true},
		{"https://app.example.com, *", true},
		{"  ", true},
	}
	for _, tt := range tests {
		t.Run(tt.origins, func(t *testing.T) {
			cfg := &Config{App: AppConfig{CorsAllowedOrigins: tt.origins}}
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
