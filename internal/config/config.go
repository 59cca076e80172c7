package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"task-reminder-bot/internal/validation"
)

// Config holds application configuration
type Config struct {
	TelegramToken string `validate:"required"`
	DatabaseURL   string `validate:"required"`

	HTTPPort string

	ReminderInterval time.Duration `validate:"gt=0"`
	ReminderWindow   time.Duration `validate:"gt=0"`
	DispatchTimeout  time.Duration `validate:"gt=0"`

	ConversationTTL time.Duration `validate:"gt=0"`
	SweepInterval   time.Duration `validate:"gt=0"`

	// RateLimit is a ulule/limiter formatted rate, e.g. "20-M"
	RateLimit string

	DebugMode bool

	OTELEnabled  bool
	OTELEndpoint string
}

// fileConfig mirrors Config for the optional YAML file. Durations are
// strings in Go duration syntax ("30s", "5m", "1h").
type fileConfig struct {
	TelegramToken    string `yaml:"telegram_token"`
	DatabaseURL      string `yaml:"database_url"`
	HTTPPort         string `yaml:"http_port"`
	ReminderInterval string `yaml:"reminder_interval"`
	ReminderWindow   string `yaml:"reminder_window"`
	DispatchTimeout  string `yaml:"dispatch_timeout"`
	ConversationTTL  string `yaml:"conversation_ttl"`
	SweepInterval    string `yaml:"sweep_interval"`
	RateLimit        string `yaml:"rate_limit"`
	DebugMode        *bool  `yaml:"debug_mode"`
	OTELEnabled      *bool  `yaml:"otel_enabled"`
	OTELEndpoint     string `yaml:"otel_endpoint"`
}

// Load builds configuration from defaults, an optional YAML file named by
// TASKBOT_CONFIG, and environment variables, in that order of precedence
// (env wins).
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:         "8080",
		ReminderInterval: 5 * time.Minute,
		ReminderWindow:   time.Hour,
		DispatchTimeout:  10 * time.Second,
		ConversationTTL:  30 * time.Minute,
		SweepInterval:    5 * time.Minute,
		RateLimit:        "20-M",
	}

	if path := os.Getenv("TASKBOT_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.TelegramToken = getEnv("TELEGRAM_TOKEN", cfg.TelegramToken)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.ReminderInterval = getEnvDuration("REMINDER_INTERVAL", cfg.ReminderInterval)
	cfg.ReminderWindow = getEnvDuration("REMINDER_WINDOW", cfg.ReminderWindow)
	cfg.DispatchTimeout = getEnvDuration("DISPATCH_TIMEOUT", cfg.DispatchTimeout)
	cfg.ConversationTTL = getEnvDuration("CONVERSATION_TTL", cfg.ConversationTTL)
	cfg.SweepInterval = getEnvDuration("SWEEP_INTERVAL", cfg.SweepInterval)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.DebugMode = getEnvBool("DEBUG_MODE", cfg.DebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if err := validation.Validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFile overlays values from a YAML config file
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&c.TelegramToken, fc.TelegramToken)
	setString(&c.DatabaseURL, fc.DatabaseURL)
	setString(&c.HTTPPort, fc.HTTPPort)
	setString(&c.RateLimit, fc.RateLimit)
	setString(&c.OTELEndpoint, fc.OTELEndpoint)

	if fc.DebugMode != nil {
		c.DebugMode = *fc.DebugMode
	}
	if fc.OTELEnabled != nil {
		c.OTELEnabled = *fc.OTELEnabled
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"reminder_interval", fc.ReminderInterval, &c.ReminderInterval},
		{"reminder_window", fc.ReminderWindow, &c.ReminderWindow},
		{"dispatch_timeout", fc.DispatchTimeout, &c.DispatchTimeout},
		{"conversation_ttl", fc.ConversationTTL, &c.ConversationTTL},
		{"sweep_interval", fc.SweepInterval, &c.SweepInterval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s in config file %s: %w", d.name, path, err)
		}
		*d.dst = parsed
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
