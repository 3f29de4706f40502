// Package errs defines the closed set of error kinds the SDK surfaces at its
// public boundaries and a CodedError type that carries structured detail
// alongside the kind, the way a caller can switch on without string matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind is one of the error kinds from the protocol's error taxonomy.
type Kind string

const (
	KindValidationFailed           Kind = "ValidationFailed"
	KindInvalidDid                 Kind = "InvalidDid"
	KindNotFound                   Kind = "NotFound"
	KindRepresentationNotSupported Kind = "RepresentationNotSupported"
	KindProofVerificationFailed    Kind = "ProofVerificationFailed"
	KindLayerFinalityViolation     Kind = "LayerFinalityViolation"
	KindInvalidTransition          Kind = "InvalidTransition"
	KindInsufficientFunds          Kind = "InsufficientFunds"
	KindFeeTooLow                  Kind = "FeeTooLow"
	KindNetworkUnavailable         Kind = "NetworkUnavailable"
	KindCircuitOpen                Kind = "CircuitOpen"
	KindBatchPartialFailure        Kind = "BatchPartialFailure"
	KindQuarantine                 Kind = "Quarantine"
)

// CodedError is the error type returned at every fallible public operation.
// Kind is stable and machine-readable; Details carries kind-specific structured
// data (e.g. {required, available} for KindInsufficientFunds).
type CodedError struct {
	kind    Kind
	Message string
	Details map[string]any
	Cause   error
}

func New(kind Kind, message string) *CodedError {
	return &CodedError{kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *CodedError {
	return &CodedError{kind: kind, Message: message, Cause: cause}
}

func (e *CodedError) Kind() Kind { return e.kind }

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

func (e *CodedError) Unwrap() error { return e.Cause }

// WithDetail attaches a structured detail field and returns the receiver for chaining.
func (e *CodedError) WithDetail(key string, value any) *CodedError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Is allows errors.Is(err, target) checks by comparing kinds when the target
// is also a *CodedError: any two CodedErrors of the same kind match.
func (e *CodedError) Is(target error) bool {
	var other *CodedError
	if errors.As(target, &other) {
		return e.kind == other.kind
	}
	return false
}

// KindOf extracts the Kind from err if it is (or wraps) a *CodedError.
func KindOf(err error) (Kind, bool) {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.kind, true
	}
	return "", false
}

// Sentinel returns a bare CodedError of the given kind, suitable as a target
// for errors.Is comparisons: errors.Is(err, errs.Sentinel(errs.KindNotFound)).
func Sentinel(kind Kind) *CodedError {
	return &CodedError{kind: kind}
}
