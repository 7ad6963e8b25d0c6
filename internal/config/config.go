package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr    string        `env:"LISTEN_ADDR" envDefault:":8080"`
	DBPath        string        `env:"DB_PATH" envDefault:"/data/storefront.db"`
	ImagePath     string        `env:"IMAGE_LOCAL_PATH" envDefault:"/data/product-images"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	VisionBackend string        `env:"VISION_BACKEND" envDefault:"ollama"`
	OllamaHost    string        `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel   string        `env:"OLLAMA_MODEL" envDefault:"moondream"`
	ClaudeAPIKey  string        `env:"CLAUDE_API_KEY"`
	ClaudeModel   string        `env:"CLAUDE_MODEL" envDefault:"claude-sonnet-4-20250514"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string        `env:"LOG_FILE"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
