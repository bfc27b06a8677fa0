package llm

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"triage-ai/internal/domain"
	"triage-ai/internal/infra/config"
)

// RateLimitedProvider wraps an LLMProvider with a client-side token bucket
// so the process stays inside the hosted API's request budget instead of
// discovering it through 429s. Wait blocks until a slot is available or the
// request context is cancelled.
type RateLimitedProvider struct {
	inner   domain.LLMProvider
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedProvider wraps inner with a requests-per-minute budget.
func NewRateLimitedProvider(inner domain.LLMProvider, cfg config.RateLimitConfig, logger *slog.Logger) *RateLimitedProvider {
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
		logger:  logger,
	}
}

// Chat implements domain.LLMProvider.
func (p *RateLimitedProvider) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if !p.limiter.Allow() {
		p.logger.Debug("rate limiter throttling llm call", "provider", p.inner.Name())
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, domain.WrapOp("rate limit wait", err)
		}
	}
	return p.inner.Chat(ctx, req)
}

// Name implements domain.LLMProvider.
func (p *RateLimitedProvider) Name() string { return p.inner.Name() }

// Compile-time interface check.
var _ domain.LLMProvider = (*RateLimitedProvider)(nil)
