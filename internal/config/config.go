// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the CLI/server configuration loadable from a JSON file. All
// fields are optional; missing values fall back to defaults or CLI flags.
type Config struct {
	// Inputs
	Pattern    string `json:"pattern,omitempty"`     // path to a pattern file
	PatternURL string `json:"pattern_url,omitempty"` // URL to fetch a pattern from

	// Analysis behavior
	Sizes      []string `json:"sizes,omitempty"`       // size-label override
	UseLLM     bool     `json:"use_llm,omitempty"`     // enable LLM enrichment
	APIKey     string   `json:"api_key,omitempty"`     // Gemini API key
	UseBrowser bool     `json:"use_browser,omitempty"` // headless browser for JS-only pages
	Verbose    bool     `json:"verbose,omitempty"`

	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Pattern != "" && c.PatternURL != "" {
		return fmt.Errorf("config error: 'pattern' and 'pattern_url' are mutually exclusive")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.Pattern != "" {
		if _, err := os.Stat(c.Pattern); os.IsNotExist(err) {
			return fmt.Errorf("config error: pattern file not found: %s", c.Pattern)
		}
	}
	return nil
}

// MergeWithDefaults fills empty fields from defaults. Bool fields are not
// merged since unset and false are indistinguishable; CLI flags win there.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Pattern == "" {
		result.Pattern = defaults.Pattern
	}
	if result.PatternURL == "" {
		result.PatternURL = defaults.PatternURL
	}
	if len(result.Sizes) == 0 {
		result.Sizes = defaults.Sizes
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}
