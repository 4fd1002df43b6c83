// Package config loads application configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Server
	ServerPort string `yaml:"server_port"`

	// Database; empty disables persistence
	DatabaseURL string `yaml:"database_url"`

	// Generation service
	Generation struct {
		Endpoint       string `yaml:"endpoint"`
		APIKey         string `yaml:"api_key"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"generation"`

	// Retrieval service
	Retrieval struct {
		Endpoint       string `yaml:"endpoint"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"retrieval"`

	// Pipeline tuning
	Pipeline struct {
		BriefingConcurrency int     `yaml:"briefing_concurrency"`
		CurationMinScore    float64 `yaml:"curation_min_score"`
		ConnectDelayMS      int     `yaml:"connect_delay_ms"`
	} `yaml:"pipeline"`
}

// Load reads configuration from the given YAML file (skipped when the path
// is empty or missing) and applies environment overrides on top of defaults
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.ServerPort = "8000"
	cfg.Generation.Model = "default"
	cfg.Generation.TimeoutSeconds = 120
	cfg.Retrieval.TimeoutSeconds = 60
	cfg.Pipeline.BriefingConcurrency = 2
	cfg.Pipeline.ConnectDelayMS = 1000

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, eris.Wrapf(err, "config: parse %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, eris.Wrapf(err, "config: read %s", path)
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.Generation.Endpoint = getEnv("GENERATION_ENDPOINT", cfg.Generation.Endpoint)
	cfg.Generation.APIKey = getEnv("GENERATION_API_KEY", cfg.Generation.APIKey)
	cfg.Generation.Model = getEnv("GENERATION_MODEL", cfg.Generation.Model)
	cfg.Retrieval.Endpoint = getEnv("RETRIEVAL_ENDPOINT", cfg.Retrieval.Endpoint)
	cfg.Retrieval.APIKey = getEnv("RETRIEVAL_API_KEY", cfg.Retrieval.APIKey)
	cfg.Pipeline.BriefingConcurrency = getEnvInt("BRIEFING_CONCURRENCY", cfg.Pipeline.BriefingConcurrency)

	return cfg, nil
}

// GenerationTimeout returns the generation call timeout
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}

// RetrievalTimeout returns the retrieval call timeout
func (c *Config) RetrievalTimeout() time.Duration {
	return time.Duration(c.Retrieval.TimeoutSeconds) * time.Second
}

// ConnectDelay returns the observer attach grace period
func (c *Config) ConnectDelay() time.Duration {
	return time.Duration(c.Pipeline.ConnectDelayMS) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
