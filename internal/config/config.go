package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "ecopulse/libs/config"
)

// HTTPConfig controls the listener.
type HTTPConfig struct {
	Port string `yaml:"port" env:"ECOPULSE_HTTP_PORT"`
}

// DatabaseConfig points at postgres.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"ECOPULSE_POSTGRES_DSN"`
}

// RedisConfig points at redis. An empty addr switches the key-value layer
// to the in-process store, which is only suitable for development.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ECOPULSE_REDIS_ADDR"`
	Password string `yaml:"password" env:"ECOPULSE_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"ECOPULSE_REDIS_DB"`
}

// EngineConfig points at the external estimation engine.
type EngineConfig struct {
	BaseURL string `yaml:"baseUrl" env:"ECOPULSE_ENGINE_BASE_URL"`
}

// AuthConfig controls JWT issuance.
type AuthConfig struct {
	JWTSecret       string `yaml:"jwtSecret" env:"ECOPULSE_JWT_SECRET"`
	TokenTTLSeconds int    `yaml:"tokenTtlSeconds" env:"ECOPULSE_TOKEN_TTL"`
}

// EncryptionConfig holds the optional field encryption key.
type EncryptionConfig struct {
	FieldKeyB64 string `yaml:"fieldKeyB64" env:"ECOPULSE_FIELD_KEY_B64"`
}

// Config defines the backend configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Engine     EngineConfig     `yaml:"engine"`
	Auth       AuthConfig       `yaml:"auth"`
	Encryption EncryptionConfig `yaml:"encryption"`
	SeedDemo   bool             `yaml:"seedDemo" env:"ECOPULSE_SEED_DEMO"`
}

// Load reads configuration via the shared helper and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP:   HTTPConfig{Port: "8080"},
		Engine: EngineConfig{BaseURL: "http://localhost:8000"},
		Auth:   AuthConfig{TokenTTLSeconds: 3600},
	}

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if strings.TrimSpace(cfg.Engine.BaseURL) == "" {
		return nil, errors.New("config: engine base url required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// TokenTTL returns the JWT lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTLSeconds) * time.Second
}
