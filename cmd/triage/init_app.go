package main

import (
	"fmt"
	"log/slog"

	"triage-ai/internal/adapter/llm"
	"triage-ai/internal/adapter/ticket"
	"triage-ai/internal/domain"
	"triage-ai/internal/infra/config"
	"triage-ai/internal/usecase"
)

// App holds the wired application components.
type App struct {
	Triage   *usecase.Triage
	Store    domain.TicketStore
	Registry *llm.Registry
}

// Close releases held resources.
func (a *App) Close() error {
	return a.Store.Close()
}

// initApp wires the provider, store, and triage service from config.
func initApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	registry := llm.NewRegistry()

	wrapped, err := createProvider(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	if err := registry.Register(wrapped); err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	provider, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	store, err := ticket.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	log.Info("ticket store opened", "path", cfg.Store.Path)

	model := cfg.LLM.Provider.Model
	triage := usecase.NewTriage(
		usecase.NewClassifier(provider, model, log),
		usecase.NewResponder(provider, model, cfg.Triage.MaxResponseTokens, log),
		store,
		log,
	)

	return &App{Triage: triage, Store: store, Registry: registry}, nil
}

// createProvider builds the chat provider with its resilience wrappers.
func createProvider(cfg *config.Config, log *slog.Logger) (domain.LLMProvider, error) {
	var provider domain.LLMProvider = llm.NewOpenAIProvider(cfg.LLM.Provider, log)

	if cfg.LLM.CircuitBreaker.Enabled {
		provider = llm.NewCircuitBreakerProvider(provider, cfg.LLM.CircuitBreaker, log)
		log.Info("llm circuit breaker enabled",
			"max_failures", cfg.LLM.CircuitBreaker.MaxFailures,
			"timeout", cfg.LLM.CircuitBreaker.Timeout,
		)
	}
	if cfg.LLM.RateLimit.Enabled {
		provider = llm.NewRateLimitedProvider(provider, cfg.LLM.RateLimit, log)
		log.Info("llm rate limit enabled",
			"requests_per_min", cfg.LLM.RateLimit.RequestsPerMin,
			"burst", cfg.LLM.RateLimit.Burst,
		)
	}
	return provider, nil
}
