// Package config loads server and CLI settings from a file, the environment and defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-studio/internal/llm"
)

// Config holds every setting the binary reads. All fields are optional;
// MergeWithDefaults fills the gaps.
type Config struct {
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // archive is disabled when empty
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"`           // Gemini API key
	Template    string `json:"template,omitempty" yaml:"template,omitempty"`         // custom LaTeX template path
	ModelTier   string `json:"model_tier,omitempty" yaml:"model_tier,omitempty"`

	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json or pretty

	CORSOrigin   string        `json:"cors_origin,omitempty" yaml:"cors_origin,omitempty"`
	FetchTimeout time.Duration `json:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty"`
	MaxUploadMB  int           `json:"max_upload_mb,omitempty" yaml:"max_upload_mb,omitempty"`
}

// Defaults returns the values used when nothing else is configured.
func Defaults() Config {
	return Config{
		Port:         8080,
		ModelTier:    string(llm.TierStandard),
		LogLevel:     "info",
		LogFormat:    "json",
		CORSOrigin:   "*",
		FetchTimeout: 20 * time.Second,
		MaxUploadMB:  10,
	}
}

// LoadConfig reads a JSON or YAML file, chosen by extension.
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	return &cfg, nil
}

// FromEnv reads the settings that have an environment variable. Unset or
// malformed variables leave the field at its zero value.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		Template:    os.Getenv("RESUME_TEMPLATE"),
		ModelTier:   os.Getenv("MODEL_TIER"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		LogFormat:   os.Getenv("LOG_FORMAT"),
		CORSOrigin:  os.Getenv("CORS_ORIGIN"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if d, err := time.ParseDuration(os.Getenv("FETCH_TIMEOUT")); err == nil {
		cfg.FetchTimeout = d
	}
	if mb, err := strconv.Atoi(os.Getenv("MAX_UPLOAD_MB")); err == nil {
		cfg.MaxUploadMB = mb
	}
	return cfg
}

// Validate checks value ranges and referenced files. Missing values are not
// errors; MergeWithDefaults handles those.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'max_upload_mb' must be non-negative")
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("config error: 'fetch_timeout' must be non-negative")
	}

	switch c.LogFormat {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("config error: 'log_format' must be json or pretty, got %q", c.LogFormat)
	}

	if _, err := llm.ParseTier(c.ModelTier); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	return nil
}

// MergeWithDefaults returns a copy of c with zero fields taken from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.Template, defaults.Template)
	mergeString(&result.ModelTier, defaults.ModelTier)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)
	mergeString(&result.CORSOrigin, defaults.CORSOrigin)

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.FetchTimeout == 0 {
		result.FetchTimeout = defaults.FetchTimeout
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}
	return result
}

func mergeString(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

// Load resolves the effective configuration: environment first, then the
// optional file, then Defaults.
func Load(path string) (Config, error) {
	cfg := FromEnv()
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*file)
	}
	cfg = cfg.MergeWithDefaults(Defaults())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Tier returns the configured model tier, or standard when it does not parse.
func (c *Config) Tier() llm.ModelTier {
	tier, err := llm.ParseTier(c.ModelTier)
	if err != nil {
		return llm.TierStandard
	}
	return tier
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
