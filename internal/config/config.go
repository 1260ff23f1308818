// Package config loads and watches the .springnorm workspace configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all springnorm configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM provider configuration
	LLM LLMConfig `yaml:"llm"`

	// Sequence generation configuration
	Generation GenerationConfig `yaml:"generation"`

	// Chat/sequence persistence
	History HistoryConfig `yaml:"history"`

	// Export settings
	Export ExportConfig `yaml:"export"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the sequence-generation provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // together, ollama
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// GenerationConfig tunes the request the generator sends.
type GenerationConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	MaxRetries  int     `yaml:"max_retries"`
}

// HistoryConfig configures the SQLite history store.
type HistoryConfig struct {
	DatabasePath string `yaml:"database_path"`
	MaxMessages  int    `yaml:"max_messages"`
}

// ExportConfig configures the export writers.
type ExportConfig struct {
	OutputDirectory string `yaml:"output_directory"`
	DefaultFormat   string `yaml:"default_format"` // txt, csv, json
}

// LoggingConfig configures category logging. Mirrored by the logging
// package's own loader so the parsing core carries no config dependency.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "springnorm",
		Version: "1.0.0",

		LLM: LLMConfig{
			Provider: "together",
			Model:    "meta-llama/Llama-3.3-70B-Instruct-Turbo",
			BaseURL:  "https://api.together.xyz/v1",
			Timeout:  "120s",
		},

		Generation: GenerationConfig{
			MaxTokens:   4096,
			Temperature: 0.1,
			MaxRetries:  3,
		},

		History: HistoryConfig{
			DatabasePath: "data/springnorm.db",
			MaxMessages:  100,
		},

		Export: ExportConfig{
			OutputDirectory: "exports",
			DefaultFormat:   "txt",
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Path returns the workspace-relative config file path.
func Path(workspace string) string {
	return filepath.Join(workspace, ".springnorm", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults, not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("TOGETHER_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "together"
		}
	}
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		c.LLM.Provider = "ollama"
		c.LLM.BaseURL = url
	}
	if path := os.Getenv("SPRINGNORM_DB"); path != "" {
		c.History.DatabasePath = path
	}
}

// GetLLMTimeout returns the provider timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}
