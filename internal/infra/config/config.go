package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Store  StoreConfig  `yaml:"store"`
	Triage TriageConfig `yaml:"triage"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
}

// LLMConfig holds hosted model provider settings.
type LLMConfig struct {
	Provider       ProviderConfig       `yaml:"provider"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
}

// ProviderConfig holds settings for the chat-completion provider.
type ProviderConfig struct {
	Name        string        `yaml:"name"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	ConnTimeout time.Duration `yaml:"conn_timeout"`
	RespTimeout time.Duration `yaml:"resp_timeout"`
	Pool        PoolConfig    `yaml:"pool"`
}

// PoolConfig holds HTTP connection pool settings for the provider client.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// CircuitBreakerConfig holds circuit breaker settings for the provider.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// RateLimitConfig holds the client-side request budget for the provider.
type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled"`
	RequestsPerMin int  `yaml:"requests_per_min"`
	Burst          int  `yaml:"burst"`
}

// StoreConfig holds ticket store settings.
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite file, parent dirs created on demand
}

// TriageConfig holds triage flow settings.
type TriageConfig struct {
	// MaxResponseTokens caps responder completions; 0 = provider default.
	MaxResponseTokens int `yaml:"max_response_tokens"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// defaultDataDir returns the persistent data directory under $HOME/.triageai/data.
// Falls back to "./data" if $HOME cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".triageai", "data")
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: ProviderConfig{
				Name:  "openai",
				Model: "gpt-4o-mini",
			},
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
			RateLimit: RateLimitConfig{
				Enabled:        false,
				RequestsPerMin: 60,
				Burst:          10,
			},
		},
		Store: StoreConfig{
			Path: filepath.Join(defaultDataDir(), "support.db"),
		},
		Triage: TriageConfig{
			MaxResponseTokens: 256,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides. A missing
// file is not an error: defaults plus environment are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps environment variables to config fields.
// OPENAI_API_KEY and OPENAI_BASE_URL match the upstream provider's
// conventional names; everything else is TRIAGE_*-prefixed.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.Provider.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.Provider.BaseURL = v
	}
	if v := os.Getenv("TRIAGE_MODEL"); v != "" {
		cfg.LLM.Provider.Model = v
	}
	if v := os.Getenv("TRIAGE_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("TRIAGE_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("TRIAGE_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("TRIAGE_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("TRIAGE_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("TRIAGE_LLM_RATE_LIMIT_ENABLED"); v == "true" {
		cfg.LLM.RateLimit.Enabled = true
	}
	if v := os.Getenv("TRIAGE_LLM_RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LLM.RateLimit.RequestsPerMin = n
		}
	}
}
