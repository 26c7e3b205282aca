// Package config loads settings from .env files, the environment and an
// optional YAML file. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	PlaceholderOpenAIKey     = "your_openai_api_key_here"
	PlaceholderPerplexityKey = "your_perplexity_api_key_here"
)

var (
	ErrMissingAPIKey     = errors.New("OPENAI_API_KEY is not set")
	ErrPlaceholderAPIKey = errors.New("OPENAI_API_KEY still holds the placeholder value")
)

type Config struct {
	OpenAIKey     string        `yaml:"openaiApiKey"`
	PerplexityKey string        `yaml:"perplexityApiKey"`
	Model         string        `yaml:"model"`
	Addr          string        `yaml:"addr"`
	LogLevel      string        `yaml:"logLevel"`
	LogPretty     bool          `yaml:"logPretty"`
	MaxSteps      int           `yaml:"maxSteps"`
	RedisAddr     string        `yaml:"redisAddr"`
	SessionTTL    time.Duration `yaml:"sessionTTL"`
}

func Default() Config {
	return Config{
		Model:      "gpt-4",
		Addr:       ":8080",
		LogLevel:   "info",
		LogPretty:  true,
		MaxSteps:   10,
		SessionTTL: 24 * time.Hour,
	}
}

// LoadEnvFiles loads .env.local and .env from dir when present. Variables
// already set in the environment are kept.
func LoadEnvFiles(dir string) error {
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the YAML file at path, if any, over the defaults and applies the
// environment on top.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	str := map[string]*string{
		"OPENAI_API_KEY":     &cfg.OpenAIKey,
		"PERPLEXITY_API_KEY": &cfg.PerplexityKey,
		"PIPO_MODEL":         &cfg.Model,
		"PIPO_ADDR":          &cfg.Addr,
		"PIPO_LOG_LEVEL":     &cfg.LogLevel,
		"PIPO_REDIS_ADDR":    &cfg.RedisAddr,
	}
	for k, dst := range str {
		if v, ok := os.LookupEnv(k); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("PIPO_LOG_PRETTY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("PIPO_LOG_PRETTY: %w", err)
		}
		cfg.LogPretty = b
	}
	if v, ok := os.LookupEnv("PIPO_MAX_STEPS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("PIPO_MAX_STEPS: %w", err)
		}
		cfg.MaxSteps = n
	}
	if v, ok := os.LookupEnv("PIPO_SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("PIPO_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	return cfg, nil
}

// CheckOpenAIKey fails when the key is missing or still the setup placeholder.
func (c Config) CheckOpenAIKey() error {
	switch c.OpenAIKey {
	case "":
		return ErrMissingAPIKey
	case PlaceholderOpenAIKey:
		return ErrPlaceholderAPIKey
	}
	return nil
}

// PerplexityToken is the Perplexity key, empty while it holds the setup placeholder.
func (c Config) PerplexityToken() string {
	if c.PerplexityKey == PlaceholderPerplexityKey {
		return ""
	}
	return c.PerplexityKey
}
