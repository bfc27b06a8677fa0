package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorFormat(t *testing.T) {
	err := NewDomainError("TicketStore.GetTicketStatus", ErrTicketNotFound, "ticket 42")
	want := "TicketStore.GetTicketStatus: ticket 42: ticket not found"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorFormatNoDetail(t *testing.T) {
	err := NewDomainError("Classifier.Classify", ErrUpstreamModel, "")
	want := "Classifier.Classify: upstream model error"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("TicketStore.CreateTicket", ErrStoreUnavailable, "disk full")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("errors.Is should match ErrStoreUnavailable")
	}
}

func TestDomainErrorAs(t *testing.T) {
	err := NewDomainError("LLM.Chat", ErrProviderNotFound, "openai")
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatal("errors.As should match *DomainError")
	}
	if de.Op != "LLM.Chat" {
		t.Errorf("Op = %q, want %q", de.Op, "LLM.Chat")
	}
}

func TestWrapOp(t *testing.T) {
	if WrapOp("op", nil) != nil {
		t.Error("WrapOp(nil) should be nil")
	}
	err := WrapOp("open store", ErrStoreUnavailable)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("wrapped error should match sentinel")
	}
}

func TestErrorCodeOf(t *testing.T) {
	assert.Equal(t, CodeTicketNotFound, ErrorCodeOf(ErrTicketNotFound))
	assert.Equal(t, CodeUpstreamModel, ErrorCodeOf(ErrUpstreamModel))
	assert.Equal(t, CodeUnknown, ErrorCodeOf(nil))
	assert.Equal(t, CodeUnknown, ErrorCodeOf(fmt.Errorf("some other error")))

	// Through a DomainError.
	de := NewDomainError("Router.Handle", ErrStoreUnavailable, "")
	assert.Equal(t, CodeStoreUnavailable, ErrorCodeOf(de))

	// Through fmt.Errorf wrapping.
	wrapped := fmt.Errorf("request failed: %w", ErrRateLimit)
	assert.Equal(t, CodeRateLimit, ErrorCodeOf(wrapped))
}
