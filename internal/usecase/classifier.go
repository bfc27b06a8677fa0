package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"triage-ai/internal/domain"
	"triage-ai/internal/infra/tracer"
)

// classifierSystemPrompt is the fixed instruction for the triage model call.
// The JSON response format is enforced via the request; the prompt spells it
// out anyway because not every OpenAI-compatible backend honors the flag.
const classifierSystemPrompt = "You are a banking customer support triage agent. " +
	"Classify the user's message into exactly one of: " +
	"positive_feedback, negative_feedback, query. " +
	"Return JSON with fields: label, rationale."

// Classifier maps free-text customer messages to one of the three labels
// by delegating to a hosted chat model.
type Classifier struct {
	llm    domain.LLMProvider
	model  string
	logger *slog.Logger
}

// NewClassifier creates a classifier over the given provider. model may be
// empty, in which case the provider's configured default is used.
func NewClassifier(llm domain.LLMProvider, model string, logger *slog.Logger) *Classifier {
	return &Classifier{llm: llm, model: model, logger: logger}
}

// classifierOutput is the JSON shape requested from the model.
type classifierOutput struct {
	Label     string `json:"label"`
	Rationale string `json:"rationale"`
}

// Classify returns the label for text. The label is always one of the three
// defined values: unrecognized or empty model output falls back to
// LabelQuery, the least destructive path. Upstream failures are returned as
// errors wrapping domain.ErrUpstreamModel; blank input is ErrInvalidInput.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	ctx, span := tracer.StartSpan(ctx, "triage.classify")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		err := domain.NewDomainError("Classifier.Classify", domain.ErrInvalidInput, "empty message")
		tracer.RecordError(span, err)
		return domain.Classification{}, err
	}

	resp, err := c.llm.Chat(ctx, domain.ChatRequest{
		Model: c.model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: classifierSystemPrompt},
			{Role: domain.RoleUser, Content: text},
		},
		Temperature:  0,
		JSONResponse: true,
	})
	if err != nil {
		tracer.RecordError(span, err)
		return domain.Classification{}, domain.WrapOp("classify", err)
	}

	result := c.parseOutput(resp.Message.Content)
	span.SetAttributes(tracer.StringAttr("triage.label", string(result.Label)))
	tracer.SetOK(span)
	c.logger.Debug("message classified",
		"label", result.Label,
		"provider", c.llm.Name(),
	)
	return result, nil
}

// parseOutput normalizes raw model output to a Classification. Models
// sometimes wrap the JSON in prose or emit a bare label; both are handled.
// Anything unrecognizable becomes LabelQuery.
func (c *Classifier) parseOutput(raw string) domain.Classification {
	var out classifierOutput
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &out); err == nil {
		if label, ok := domain.ParseLabel(out.Label); ok {
			return domain.Classification{Label: label, Rationale: out.Rationale}
		}
	}

	// Not valid JSON, or the label field was unrecognized. The model may
	// have replied with the bare label.
	if label, ok := domain.ParseLabel(raw); ok {
		return domain.Classification{Label: label}
	}

	c.logger.Warn("unlabelable classifier output, defaulting to query", "output", truncate(raw, 120))
	return domain.Classification{
		Label:     domain.LabelQuery,
		Rationale: "classifier output was ambiguous; routed to query handler",
	}
}

// extractJSONObject returns the first {...} block in s, or s unchanged when
// no braces are present. Good enough for models that wrap JSON in prose or
// markdown fences.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
