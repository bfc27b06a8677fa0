package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	// ErrTicketNotFound is a normal negative result for status lookups,
	// not a store failure.
	ErrTicketNotFound = fmt.Errorf("ticket not found")
	// ErrStoreUnavailable means the backing database could not be
	// reached or the operation failed at the I/O level.
	ErrStoreUnavailable = fmt.Errorf("ticket store unavailable")
	// ErrUpstreamModel means the hosted model call failed or timed out.
	ErrUpstreamModel = fmt.Errorf("upstream model error")
	// ErrConfig means required configuration is missing or invalid.
	// Fatal at startup; never produced per-request.
	ErrConfig = fmt.Errorf("configuration error")

	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrRateLimit        = fmt.Errorf("rate limit exceeded")
	ErrAuthInvalid      = fmt.Errorf("authentication failed")
	ErrProviderNotFound = fmt.Errorf("llm provider not found")
)

// DomainError wraps a sentinel error with operation context.
type DomainError struct {
	Op     string // operation name (e.g., "TicketStore.CreateTicket")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorCode is a machine-parseable error category for monitoring.
type ErrorCode string

const (
	CodeUnknown          ErrorCode = "UNKNOWN"
	CodeTicketNotFound   ErrorCode = "TICKET_NOT_FOUND"
	CodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	CodeUpstreamModel    ErrorCode = "UPSTREAM_MODEL"
	CodeConfig           ErrorCode = "CONFIG"
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeRateLimit        ErrorCode = "RATE_LIMIT"
	CodeAuthInvalid      ErrorCode = "AUTH_INVALID"
	CodeProviderNotFound ErrorCode = "PROVIDER_NOT_FOUND"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
var errorCodeMap = map[error]ErrorCode{
	ErrTicketNotFound:   CodeTicketNotFound,
	ErrStoreUnavailable: CodeStoreUnavailable,
	ErrUpstreamModel:    CodeUpstreamModel,
	ErrConfig:           CodeConfig,
	ErrInvalidInput:     CodeInvalidInput,
	ErrRateLimit:        CodeRateLimit,
	ErrAuthInvalid:      CodeAuthInvalid,
	ErrProviderNotFound: CodeProviderNotFound,
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps DomainError and walks the chain with errors.Is.
// Returns CodeUnknown if no matching sentinel is found.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	if code, ok := errorCodeMap[err]; ok {
		return code
	}

	var de *DomainError
	if errors.As(err, &de) {
		if code, ok := errorCodeMap[de.Err]; ok {
			return code
		}
	}

	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}

	return CodeUnknown
}
