package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "JWT_EXPIRY", "RABBITMQ_WORKER_MODE",
		"CORS_ALLOWED_ORIGINS", "WS_HEARTBEAT_INTERVAL",
		"CURRENCY_EXPONENT", "DEFAULT_TAX_PERCENTAGE", "DEFAULT_SERVICE_CHARGE_PERCENTAGE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.HTTPAddr != ":8086" {
		t.Errorf("HTTPAddr = %q, want :8086", cfg.HTTPAddr)
	}
	if cfg.JWTExpirySeconds != 3600 {
		t.Errorf("JWTExpirySeconds = %d, want 3600", cfg.JWTExpirySeconds)
	}
	if cfg.RabbitMQWorkerMode != "daemon" {
		t.Errorf("RabbitMQWorkerMode = %q, want daemon", cfg.RabbitMQWorkerMode)
	}
	if cfg.CorsAllowedOrigins != nil {
		t.Errorf("CorsAllowedOrigins = %v, want nil", cfg.CorsAllowedOrigins)
	}
	if cfg.WSHeartbeatInterval != 30*time.Second {
		t.Errorf("WSHeartbeatInterval = %v, want 30s", cfg.WSHeartbeatInterval)
	}
	if cfg.CurrencyExponent != 0 {
		t.Errorf("CurrencyExponent = %d, want 0", cfg.CurrencyExponent)
	}
	if cfg.DefaultTaxPercentage != 0 || cfg.DefaultServiceChargePercent != 0 {
		t.Errorf("tax/service defaults = %v/%v, want 0/0",
			cfg.DefaultTaxPercentage, cfg.DefaultServiceChargePercent)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pos.example.com, https://kitchen.example.com")
	t.Setenv("WS_HEARTBEAT_INTERVAL", "10s")
	t.Setenv("CURRENCY_EXPONENT", "2")
	t.Setenv("DEFAULT_TAX_PERCENTAGE", "10")
	t.Setenv("DEFAULT_SERVICE_CHARGE_PERCENTAGE", "5.5")

	cfg := Load()

	if cfg.Env != "production" || cfg.HTTPAddr != ":9090" {
		t.Errorf("Env/HTTPAddr = %q/%q", cfg.Env, cfg.HTTPAddr)
	}
	if len(cfg.CorsAllowedOrigins) != 2 || cfg.CorsAllowedOrigins[1] != "https://kitchen.example.com" {
		t.Errorf("CorsAllowedOrigins = %v", cfg.CorsAllowedOrigins)
	}
	if cfg.WSHeartbeatInterval != 10*time.Second {
		t.Errorf("WSHeartbeatInterval = %v, want 10s", cfg.WSHeartbeatInterval)
	}
	if cfg.CurrencyExponent != 2 {
		t.Errorf("CurrencyExponent = %d, want 2", cfg.CurrencyExponent)
	}
	if cfg.DefaultTaxPercentage != 10 || cfg.DefaultServiceChargePercent != 5.5 {
		t.Errorf("tax/service = %v/%v", cfg.DefaultTaxPercentage, cfg.DefaultServiceChargePercent)
	}
}

func TestGetEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "not-a-number")
	t.Setenv("WS_HEARTBEAT_INTERVAL", "soon")
	t.Setenv("DEFAULT_TAX_PERCENTAGE", "ten percent")

	cfg := Load()

	if cfg.JWTExpirySeconds != 3600 {
		t.Errorf("JWTExpirySeconds = %d, want fallback 3600", cfg.JWTExpirySeconds)
	}
	if cfg.WSHeartbeatInterval != 30*time.Second {
		t.Errorf("WSHeartbeatInterval = %v, want fallback 30s", cfg.WSHeartbeatInterval)
	}
	if cfg.DefaultTaxPercentage != 0 {
		t.Errorf("DefaultTaxPercentage = %v, want fallback 0", cfg.DefaultTaxPercentage)
	}
}
