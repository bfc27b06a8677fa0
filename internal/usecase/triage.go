package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"triage-ai/internal/domain"
	"triage-ai/internal/infra/tracer"
)

var ticketNumberRe = regexp.MustCompile(`\d+`)

// Triage routes incoming customer messages. Each message is classified,
// then dispatched to the matching handler: positive feedback gets a thank
// you, negative feedback opens a support ticket, and queries look up
// ticket status. The store is only touched on the negative and
// found-number query paths.
type Triage struct {
	classifier *Classifier
	responder  *Responder
	store      domain.TicketStore
	logger     *slog.Logger
}

// NewTriage wires the triage service.
func NewTriage(classifier *Classifier, responder *Responder, store domain.TicketStore, logger *slog.Logger) *Triage {
	return &Triage{classifier: classifier, responder: responder, store: store, logger: logger}
}

// HandleMessage processes one customer message end to end and returns the
// customer-facing reply. Per-request failures (upstream model, store) are
// converted to a generic failure reply; an error is returned only for
// invalid input.
func (t *Triage) HandleMessage(ctx context.Context, message string) (string, error) {
	traceID := newTraceID()
	log := t.logger.With("trace_id", traceID)

	ctx, span := tracer.StartSpan(ctx, "triage.handle_message",
		trace.WithAttributes(tracer.StringAttr("trace_id", traceID)))
	defer span.End()

	cls, err := t.classifier.Classify(ctx, message)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			tracer.RecordError(span, err)
			return "", err
		}
		// Classification is best-effort: with the model down, the query
		// handler can still answer from the store.
		log.Warn("classification failed, routing to query handler", "error", err)
		cls = domain.Classification{Label: domain.LabelQuery}
	}
	cls.TraceID = traceID

	span.SetAttributes(tracer.StringAttr("triage.label", string(cls.Label)))
	log.Info("message classified", "label", cls.Label)

	var reply string
	switch cls.Label {
	case domain.LabelPositiveFeedback:
		reply = t.responder.PositiveReply(ctx, message)
	case domain.LabelNegativeFeedback:
		reply = t.handleNegative(ctx, log, message)
	default:
		reply = t.handleQuery(ctx, log, message)
	}

	tracer.SetOK(span)
	return reply, nil
}

// handleNegative opens a ticket for the complaint and confirms its number
// back to the customer.
func (t *Triage) handleNegative(ctx context.Context, log *slog.Logger, message string) string {
	number, err := t.store.CreateTicket(ctx, message)
	if err != nil {
		log.Error("ticket creation failed", "error", err)
		return t.responder.FailureReply()
	}
	trace.SpanFromContext(ctx).SetAttributes(tracer.Int64Attr("triage.ticket_number", number))
	log.Info("ticket created", "ticket_number", number)
	return t.responder.NegativeReply(ctx, message, number)
}

// handleQuery extracts a ticket number from the message and looks it up.
// With no number present the customer is asked for one and the store is
// not consulted.
func (t *Triage) handleQuery(ctx context.Context, log *slog.Logger, message string) string {
	raw := ticketNumberRe.FindString(message)
	if raw == "" {
		return t.responder.AskForNumberReply(ctx, message)
	}

	number, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return t.responder.AskForNumberReply(ctx, message)
	}
	trace.SpanFromContext(ctx).SetAttributes(tracer.Int64Attr("triage.ticket_number", number))

	status, err := t.store.GetTicketStatus(ctx, number)
	switch {
	case errors.Is(err, domain.ErrTicketNotFound):
		log.Info("ticket not found", "ticket_number", number)
		return t.responder.NotFoundReply(ctx, number)
	case err != nil:
		log.Error("ticket lookup failed", "ticket_number", number, "error", err)
		return t.responder.FailureReply()
	}
	return t.responder.StatusReply(ctx, number, status)
}

// newTraceID returns a ULID so per-message log lines and spans correlate.
func newTraceID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
