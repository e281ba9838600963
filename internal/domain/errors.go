package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument signals that a text has nothing left after normalization.
	ErrEmptyDocument = errors.New("empty document")
	// ErrEmptyJobDescription signals a missing or whitespace-only job description.
	ErrEmptyJobDescription = errors.New("empty job description")
	// ErrInvalidWeight signals a similarity weight outside [0, 1].
	ErrInvalidWeight = errors.New("invalid similarity weight")
	// ErrInvalidDocument signals a malformed input document (empty or duplicate id).
	ErrInvalidDocument = errors.New("invalid document")
	// ErrRunNotFound signals a missing ranking run.
	ErrRunNotFound = errors.New("ranking run not found")
	// ErrCandidateNotFound signals a document id that is not part of a run.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrUnsupportedFormat signals an input file type the ingester cannot read.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrVectorDimMismatch signals a vector of unexpected length.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure or an unusable vector.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrExportUnavailable signals that an export sink is not configured.
	ErrExportUnavailable = errors.New("export sink not configured")
)

// InvalidVectorError describes why a vector returned by the provider was rejected.
type InvalidVectorError struct {
	Reason string
}

func (e *InvalidVectorError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEmbeddingProviderError.Error(), e.Reason)
}

func (e *InvalidVectorError) Unwrap() error { return ErrEmbeddingProviderError }

// NewInvalidVector creates an embedding provider error for a degenerate vector.
func NewInvalidVector(format string, args ...any) error {
	return &InvalidVectorError{Reason: fmt.Sprintf(format, args...)}
}
