package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is the full service configuration, loaded from the environment
// (optionally seeded from a .env file).
type Config struct {
	BearerToken string `env:"BEARER_TOKEN,required"`
	APIHost     string `env:"API_HOST" envDefault:"127.0.0.1"`
	APIPort     int    `env:"API_PORT" envDefault:"3000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Ollama generation backend
	OllamaURL     string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string `env:"OLLAMA_MODEL" envDefault:"llama2"`
	OllamaEnabled bool   `env:"OLLAMA_ENABLED" envDefault:"false"`

	// Persistence
	MemoryPath    string        `env:"MEMORY_PATH" envDefault:"data/memory.json"`
	RecordsDBPath string        `env:"RECORDS_DB_PATH" envDefault:"data/records.db"`
	SaveInterval  time.Duration `env:"SAVE_INTERVAL" envDefault:"60s"`
}

// Load reads .env when present, parses the environment, and validates the
// result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT must be between 1 and 65535, got %d", c.APIPort)
	}
	if c.MemoryPath == "" {
		return fmt.Errorf("MEMORY_PATH must not be empty")
	}
	if c.RecordsDBPath == "" {
		return fmt.Errorf("RECORDS_DB_PATH must not be empty")
	}
	if c.SaveInterval < time.Second {
		return fmt.Errorf("SAVE_INTERVAL must be at least 1s, got %s", c.SaveInterval)
	}
	if c.OllamaEnabled && c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL must not be empty when OLLAMA_ENABLED=true")
	}
	return nil
}

// Address returns the host:port the API listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}
