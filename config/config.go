package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultModel      = "gemini-2.0-flash-exp-image-generation"
	defaultMaxHistory = 30
)

type Config struct {
	ServerAddr string
	Gemini     GeminiConfig
	Logging    LoggingConfig
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	OutputDir  string
	MaxHistory int
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

// Load reads configuration from the environment. It returns an error when a
// required variable is missing; callers are expected to treat that as fatal.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr: envOrDefault("SERVER_ADDR", ":8000"),
		Gemini: GeminiConfig{
			APIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:      envOrDefault("GEMINI_MODEL", defaultModel),
			OutputDir:  envOrDefault("GEMINI_OUTPUT_DIR", "output"),
			MaxHistory: parsePositiveInt(os.Getenv("MAX_HISTORY"), defaultMaxHistory),
		},
		Logging: LoggingConfig{
			Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
			Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
			Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
			EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
			ServiceName:  envOrDefault("SERVICE_NAME", "gemchat"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	missing := make([]string, 0, 1)

	if c.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parsePositiveInt(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}

func parseBool(raw string, fallback bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}
