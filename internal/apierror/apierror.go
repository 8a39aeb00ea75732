// Package apierror provides standardized error response structures for the API
// and the typed error kinds used by the financial engine. All errors returned
// to clients go through this package to ensure consistency and to prevent
// leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// Kind classifies a domain failure. Every guard rejects with one of these
// before any state change, so retrying after correcting the input is always
// safe — there is no partial-application path.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindPeriodLocked      Kind = "PERIOD_LOCKED"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindStockShortage     Kind = "STOCK_SHORTAGE"
	KindNotFound          Kind = "NOT_FOUND"
	KindIntegrity         Kind = "INTEGRITY"
)

// Error is a typed domain error. Services return *Error for every guard
// rejection; handlers map the Kind to an HTTP status.
type Error struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string { return e.Detail }

// NewDomain builds a typed domain error.
func NewDomain(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// KindOf extracts the Kind from an error chain, or "" when the error is not a
// domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Kind   Kind   `json:"kind,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FromError builds the response envelope for a service error, carrying the
// domain kind through to the client when there is one.
func FromError(err error) *APIError {
	return &APIError{Detail: err.Error(), Kind: KindOf(err)}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Kind   Kind              `json:"kind"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Kind: KindValidation, Fields: fields}
}
