package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	ai "github.com/spetersoncode/a2gate"
)

// Config holds the gateway configuration loaded from environment variables.
type Config struct {
	// Server
	Port      string
	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json

	// Provider selection
	Provider string
	Model    string

	// API Keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// OpenAIBaseURL points the openai provider at a compatible server.
	OpenAIBaseURL string

	// Vertex AI (uses ADC for auth)
	VertexProject  string
	VertexLocation string

	// Engine
	Temperature float64
	MaxSteps    int
	Timeout     time.Duration
	ToolTimeout time.Duration

	// RateLimit is stream requests per second; 0 disables limiting.
	RateLimit float64
	RateBurst int

	// Skill
	SkillsDir string
	SkillName string

	// Component documentation server
	ComponentDocURL     string
	ComponentDocTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Port:                getEnvOrDefault("GATEWAY_PORT", "8000"),
		LogLevel:            getEnvOrDefault("GATEWAY_LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("GATEWAY_LOG_FORMAT", "text"),
		Provider:            getEnvOrDefault("GATEWAY_PROVIDER", "openai"),
		Model:               os.Getenv("MODEL_NAME"),
		AnthropicKey:        os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		GoogleKey:           os.Getenv("GOOGLE_API_KEY"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		VertexProject:       os.Getenv("VERTEX_PROJECT"),
		VertexLocation:      os.Getenv("VERTEX_LOCATION"),
		Temperature:         getEnvFloatOrDefault("GATEWAY_TEMPERATURE", 0.7),
		MaxSteps:            getEnvIntOrDefault("GATEWAY_MAX_STEPS", 10),
		Timeout:             getEnvDurationOrDefault("GATEWAY_TIMEOUT", 2*time.Minute),
		ToolTimeout:         getEnvDurationOrDefault("GATEWAY_TOOL_TIMEOUT", 30*time.Second),
		RateLimit:           getEnvFloatOrDefault("GATEWAY_RATE_LIMIT", 0),
		RateBurst:           getEnvIntOrDefault("GATEWAY_RATE_BURST", 5),
		SkillsDir:           getEnvOrDefault("SKILLS_DIR", ".claude/skills"),
		SkillName:           getEnvOrDefault("SKILL_NAME", "a2ui"),
		ComponentDocURL:     getEnvOrDefault("COMPONENT_DOC_URL", "http://127.0.0.1:9527/mcp"),
		ComponentDocTimeout: getEnvDurationOrDefault("COMPONENT_DOC_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	provider, err := ai.ParseProvider(c.Provider)
	if err != nil {
		return err
	}
	c.Provider = provider.String()

	switch provider {
	case ai.ProviderAnthropic:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case ai.ProviderOpenAI:
		if c.OpenAIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY or OPENAI_BASE_URL is required for openai provider")
		}
	case ai.ProviderGoogle:
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	case ai.ProviderVertex:
		if c.VertexProject == "" || c.VertexLocation == "" {
			return fmt.Errorf("VERTEX_PROJECT and VERTEX_LOCATION are required for vertex provider")
		}
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("GATEWAY_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("GATEWAY_MAX_STEPS must not be negative")
	}
	if c.RateLimit < 0 || (c.RateLimit > 0 && c.RateBurst < 1) {
		return fmt.Errorf("GATEWAY_RATE_LIMIT must not be negative and GATEWAY_RATE_BURST must be at least 1")
	}

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level: %s (must be debug, info, warn, or error)", s)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
