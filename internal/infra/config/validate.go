package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
// A missing API key is a startup-fatal configuration error.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateLLM(cfg, ve)
	validateStore(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateLLM(cfg *Config, ve *ValidationError) {
	if cfg.LLM.Provider.APIKey == "" {
		ve.Add("llm.provider.api_key must be set (or export OPENAI_API_KEY)")
	}
	if cfg.LLM.Provider.Model == "" {
		ve.Add("llm.provider.model must not be empty")
	}
	if cfg.LLM.Provider.ConnTimeout < 0 || cfg.LLM.Provider.RespTimeout < 0 {
		ve.Add("llm.provider timeouts must not be negative")
	}
	if cfg.LLM.RateLimit.Enabled && cfg.LLM.RateLimit.RequestsPerMin <= 0 {
		ve.Add("llm.rate_limit.requests_per_min must be > 0 when rate limiting is enabled")
	}
}

func validateStore(cfg *Config, ve *ValidationError) {
	if cfg.Store.Path == "" {
		ve.Add("store.path must not be empty")
	}
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if cfg.Logger.Level != "" && !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is not one of text, json", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "stdout", "noop", "":
	default:
		ve.Add("tracer.exporter %q is not one of stdout, noop", cfg.Tracer.Exporter)
	}
}
