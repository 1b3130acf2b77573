package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds deployment settings for the server. Vendor credentials are
// optional defaults only; users normally supply their own key per session.
type Config struct {
	Host        string `env:"SCRIBE_HOST" envDefault:"0.0.0.0"`
	Port        string `env:"SCRIBE_PORT" envDefault:"8080"`
	Environment string `env:"SCRIBE_ENV" envDefault:"development"`

	ReadTimeout  time.Duration `env:"SCRIBE_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"SCRIBE_WRITE_TIMEOUT" envDefault:"5m"`
	IdleTimeout  time.Duration `env:"SCRIBE_IDLE_TIMEOUT" envDefault:"2m"`

	SessionTTL time.Duration `env:"SCRIBE_SESSION_TTL" envDefault:"30m"`

	DefaultProvider string `env:"SCRIBE_DEFAULT_PROVIDER" envDefault:"elevenlabs"`
	ProvidersFile   string `env:"SCRIBE_PROVIDERS_FILE"`

	// EntityDetector selects the fallback extractor: auto, openai, gemini,
	// or off. "auto" picks whichever key is configured, preferring OpenAI.
	EntityDetector string `env:"SCRIBE_ENTITY_DETECTOR" envDefault:"auto"`

	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Load parses the environment into a Config and validates it.
// Implements fail-fast: returns an error immediately on bad configuration.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and basic API key formats.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("SCRIBE_PORT must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SCRIBE_SESSION_TTL must be positive")
	}

	switch c.EntityDetector {
	case "auto", "openai", "gemini", "off":
	default:
		return fmt.Errorf("SCRIBE_ENTITY_DETECTOR must be one of auto, openai, gemini, off")
	}

	c.ElevenLabsAPIKey = strings.TrimSpace(c.ElevenLabsAPIKey)
	c.OpenAIAPIKey = strings.TrimSpace(c.OpenAIAPIKey)
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)

	if c.OpenAIAPIKey != "" && !strings.HasPrefix(c.OpenAIAPIKey, "sk-") {
		return fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
	}
	if c.GeminiAPIKey != "" && !strings.HasPrefix(c.GeminiAPIKey, "AIza") {
		return fmt.Errorf("invalid GEMINI_API_KEY format: must start with 'AIza'")
	}
	if c.ElevenLabsAPIKey != "" &&
		!strings.HasPrefix(c.ElevenLabsAPIKey, "sk_") &&
		!strings.HasPrefix(c.ElevenLabsAPIKey, "el_") {
		return fmt.Errorf("invalid ELEVENLABS_API_KEY format: must start with 'sk_' or 'el_'")
	}

	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
