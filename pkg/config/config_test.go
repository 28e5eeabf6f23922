package config

import (
	"strings"
	"testing"
	"time"
)

func productionConfig() *Config {
	return &Config{
		Environment:          EnvProduction,
		LogLevel:             "info",
		SessionAuthKey:       strings.Repeat("a", 32),
		SessionEncryptionKey: strings.Repeat("b", 16),
		CORSAllowedOrigins:   "https://shop.yoursneaker.com",
		CartAbandonTTL:       72 * time.Hour,
	}
}

func TestValidateForProduction_NonProductionSkipped(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, LogLevel: "debug", CORSAllowedOrigins: "*"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("expected nil outside production, got %v", err)
	}
}

func TestValidateForProduction_Valid(t *testing.T) {
	if err := ValidateForProduction(productionConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateForProduction_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short auth key", func(c *Config) { c.SessionAuthKey = "short" }, "SESSION_AUTH_KEY"},
		{"short encryption key", func(c *Config) { c.SessionEncryptionKey = "short" }, "SESSION_ENCRYPTION_KEY"},
		{"debug logging", func(c *Config) { c.LogLevel = "debug" }, "LOG_LEVEL"},
		{"wildcard cors", func(c *Config) { c.CORSAllowedOrigins = " * " }, "CORS_ALLOWED_ORIGINS"},
		{"tiny abandon ttl", func(c *Config) { c.CartAbandonTTL = time.Minute }, "CART_ABANDON_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := productionConfig()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}
