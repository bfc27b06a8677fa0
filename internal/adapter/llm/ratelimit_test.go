package llm

import (
	"context"
	"testing"
	"time"

	"triage-ai/internal/domain"
	"triage-ai/internal/infra/config"
)

func TestRateLimitedProviderAllowsWithinBudget(t *testing.T) {
	inner := &fakeProvider{
		name: "fake",
		resp: &domain.ChatResponse{Message: domain.Message{Content: "ok"}},
	}
	rl := NewRateLimitedProvider(inner, config.RateLimitConfig{
		RequestsPerMin: 600,
		Burst:          5,
	}, newTestLogger())

	for i := 0; i < 5; i++ {
		if _, err := rl.Chat(context.Background(), domain.ChatRequest{}); err != nil {
			t.Fatalf("Chat %d: %v", i, err)
		}
	}
	if inner.calls != 5 {
		t.Errorf("calls = %d, want 5", inner.calls)
	}
}

func TestRateLimitedProviderHonorsContextCancel(t *testing.T) {
	inner := &fakeProvider{
		name: "fake",
		resp: &domain.ChatResponse{},
	}
	// 1 request/min with burst 1: second call would block for ~a minute.
	rl := NewRateLimitedProvider(inner, config.RateLimitConfig{
		RequestsPerMin: 1,
		Burst:          1,
	}, newTestLogger())

	if _, err := rl.Chat(context.Background(), domain.ChatRequest{}); err != nil {
		t.Fatalf("first Chat: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := rl.Chat(ctx, domain.ChatRequest{}); err == nil {
		t.Fatal("second Chat should fail when context expires before a slot opens")
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}

func TestRateLimitedProviderName(t *testing.T) {
	rl := NewRateLimitedProvider(&fakeProvider{name: "openai"}, config.RateLimitConfig{}, newTestLogger())
	if rl.Name() != "openai" {
		t.Errorf("Name = %q, want openai", rl.Name())
	}
}
