// Package config loads service configuration from YAML with environment
// overrides. API keys never live in the YAML file; endpoints name the
// environment variable holding their key.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Endpoint represents one reasoning provider in the fallback chain
type Endpoint struct {
	URL       string `yaml:"url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // env var name for API key
	APIKey    string `yaml:"-"`           // resolved at load time
}

// Config for the analysis service
type Config struct {
	ListenAddr     string     `yaml:"listen_addr"`
	MaxUploadBytes int64      `yaml:"max_upload_bytes"`
	PatternsFile   string     `yaml:"patterns_file"`
	LLMEndpoints   []Endpoint `yaml:"llm_endpoints"` // fallback chain
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ListenAddr:     ":8080",
		MaxUploadBytes: 10 << 20,
	}
}

// Load reads config from a YAML file and applies env overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv resolves env overrides and per-endpoint API keys.
func applyEnv(cfg *Config) {
	if addr := os.Getenv("LOGLENS_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if patterns := os.Getenv("LOGLENS_PATTERNS_FILE"); patterns != "" {
		cfg.PatternsFile = patterns
	}
	for i := range cfg.LLMEndpoints {
		if cfg.LLMEndpoints[i].APIKeyEnv != "" {
			cfg.LLMEndpoints[i].APIKey = os.Getenv(cfg.LLMEndpoints[i].APIKeyEnv)
		}
	}
}
