package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage-ai/internal/domain"
	"triage-ai/internal/infra/logger"
)

func newTestResponder(llm *fakeLLM) *Responder {
	return NewResponder(llm, "gpt-4o-mini", 256, logger.Discard())
}

func TestResponderUsesModelReply(t *testing.T) {
	llm := &fakeLLM{replies: []string{"Thanks a lot for letting us know, we're glad it worked out!"}}
	r := newTestResponder(llm)

	got := r.PositiveReply(context.Background(), "Great service, thanks!")
	assert.Equal(t, "Thanks a lot for letting us know, we're glad it worked out!", got)

	req := llm.lastRequest(t)
	assert.Equal(t, 256, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[0].Content, "Feedback Handler")
}

func TestNegativeReplyCarriesTicketNumber(t *testing.T) {
	llm := &fakeLLM{replies: []string{"So sorry about that. We opened ticket 42 and will be in touch."}}
	got := newTestResponder(llm).NegativeReply(context.Background(), "The app keeps crashing.", 42)
	assert.Contains(t, got, "42")
}

func TestNegativeReplyFallsBackWhenNumberDropped(t *testing.T) {
	llm := &fakeLLM{replies: []string{"So sorry about that, we will look into it."}}
	got := newTestResponder(llm).NegativeReply(context.Background(), "The app keeps crashing.", 42)
	assert.Contains(t, got, "42", "template fallback must carry the ticket number")
}

func TestStatusReplyCarriesFacts(t *testing.T) {
	llm := &fakeLLM{err: domain.ErrUpstreamModel}
	got := newTestResponder(llm).StatusReply(context.Background(), 7, domain.StatusOpen)
	assert.Contains(t, got, "7")
	assert.Contains(t, got, "open")
}

func TestNotFoundReplyOnModelFailure(t *testing.T) {
	llm := &fakeLLM{err: domain.ErrUpstreamModel}
	got := newTestResponder(llm).NotFoundReply(context.Background(), 650932)
	assert.Contains(t, got, "650932")
}

func TestAskForNumberReplyOnEmptyModelOutput(t *testing.T) {
	llm := &fakeLLM{replies: []string{"   "}}
	got := newTestResponder(llm).AskForNumberReply(context.Background(), "What's up with my ticket?")
	assert.Contains(t, strings.ToLower(got), "ticket number")
}

func TestQueryPromptsUseQueryHandlerRole(t *testing.T) {
	llm := &fakeLLM{replies: []string{"Ticket 3 is open."}}
	_ = newTestResponder(llm).StatusReply(context.Background(), 3, domain.StatusOpen)
	req := llm.lastRequest(t)
	assert.Contains(t, req.Messages[0].Content, "Query Handler")
}
