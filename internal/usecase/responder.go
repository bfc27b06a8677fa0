package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"triage-ai/internal/domain"
)

// Role prompts for the two response handlers. These mirror the agent
// role/goal/backstory split: a feedback handler that acknowledges praise or
// complaints, and a query handler that reports ticket status.
const (
	feedbackHandlerPrompt = "You are a Feedback Handler for a bank's customer support team. " +
		"You help banking customers feel heard and provide next steps when they report issues. " +
		"Respond in 1-2 sentences, warm and empathetic. Never invent ticket numbers or statuses; " +
		"use exactly the facts given."

	queryHandlerPrompt = "You are a Query Handler for a bank's customer support team. " +
		"You help banking customers understand the status of their support tickets. " +
		"Respond in 1-2 sentences, clear and concise. Never invent ticket numbers or statuses; " +
		"use exactly the facts given."
)

// Responder phrases routing outcomes as customer-facing text. The facts
// (ticket number, status) are decided by the router; the responder only
// words them. When the model is unavailable or drops a required fact, a
// deterministic template is used instead, so the routing contract holds
// with the upstream down.
type Responder struct {
	llm       domain.LLMProvider
	model     string
	maxTokens int
	logger    *slog.Logger
}

// NewResponder creates a responder over the given provider.
func NewResponder(llm domain.LLMProvider, model string, maxTokens int, logger *slog.Logger) *Responder {
	return &Responder{llm: llm, model: model, maxTokens: maxTokens, logger: logger}
}

// PositiveReply acknowledges positive feedback.
func (r *Responder) PositiveReply(ctx context.Context, message string) string {
	task := fmt.Sprintf("Customer message: %s\nFeedback type: positive_feedback\n"+
		"Thank the customer warmly for their feedback.", message)
	return r.reply(ctx, feedbackHandlerPrompt, task,
		"Thank you so much for the kind words! We're delighted the issue was resolved to your satisfaction.",
		"")
}

// NegativeReply apologizes for negative feedback and confirms the ticket
// that was created for follow-up. The reply always contains the number.
func (r *Responder) NegativeReply(ctx context.Context, message string, number int64) string {
	task := fmt.Sprintf("Customer message: %s\nFeedback type: negative_feedback\n"+
		"Support ticket %d has been created for follow-up.\n"+
		"Apologize and tell the customer their ticket number.", message, number)
	return r.reply(ctx, feedbackHandlerPrompt, task,
		fmt.Sprintf("We're sorry about the trouble. Support ticket %d has been created and our team will follow up with you shortly.", number),
		strconv.FormatInt(number, 10))
}

// StatusReply reports the current status of a found ticket.
func (r *Responder) StatusReply(ctx context.Context, number int64, status string) string {
	task := fmt.Sprintf("The customer asked about ticket %d. Its current status is %q.\n"+
		"Report the status.", number, status)
	return r.reply(ctx, queryHandlerPrompt, task,
		fmt.Sprintf("Ticket %d is currently %s. We'll keep you posted on any changes.", number, status),
		strconv.FormatInt(number, 10))
}

// NotFoundReply tells the customer the ticket number is unknown. A missing
// ticket is a normal outcome, not an error.
func (r *Responder) NotFoundReply(ctx context.Context, number int64) string {
	task := fmt.Sprintf("The customer asked about ticket %d, but no ticket with that number exists.\n"+
		"Let them know it was not found and ask them to double-check the number.", number)
	return r.reply(ctx, queryHandlerPrompt, task,
		fmt.Sprintf("We couldn't find ticket %d. Please double-check the number and try again.", number),
		strconv.FormatInt(number, 10))
}

// AskForNumberReply prompts the customer for a ticket number when none
// could be extracted from their message.
func (r *Responder) AskForNumberReply(ctx context.Context, message string) string {
	task := fmt.Sprintf("Customer message: %s\n"+
		"No ticket number was mentioned. Ask the customer for their ticket number so you can check the status.", message)
	return r.reply(ctx, queryHandlerPrompt, task,
		"Happy to help! Could you share your ticket number so we can check its status?",
		"")
}

// FailureReply is the generic per-request failure response. It is produced
// without a model call: if we're here, the upstream or the store already
// failed.
func (r *Responder) FailureReply() string {
	return "We're having trouble processing your message right now. Please try again in a moment."
}

// reply runs one role-prompted completion. mustContain, when non-empty, is
// a fact the model reply has to carry verbatim; otherwise the fallback
// template is used.
func (r *Responder) reply(ctx context.Context, rolePrompt, task, fallback, mustContain string) string {
	resp, err := r.llm.Chat(ctx, domain.ChatRequest{
		Model: r.model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: rolePrompt},
			{Role: domain.RoleUser, Content: task},
		},
		MaxTokens:   r.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		r.logger.Warn("responder model call failed, using template", "error", err)
		return fallback
	}

	text := strings.TrimSpace(resp.Message.Content)
	if text == "" {
		return fallback
	}
	if mustContain != "" && !strings.Contains(text, mustContain) {
		r.logger.Warn("responder reply dropped a required fact, using template", "fact", mustContain)
		return fallback
	}
	return text
}
