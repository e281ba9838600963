package resumerank

import "github.com/kailas-cloud/resumerank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyJobDescription    = domain.ErrEmptyJobDescription
	ErrInvalidWeight          = domain.ErrInvalidWeight
	ErrInvalidDocument        = domain.ErrInvalidDocument
	ErrUnsupportedFormat      = domain.ErrUnsupportedFormat
	ErrRunNotFound            = domain.ErrRunNotFound
	ErrCandidateNotFound      = domain.ErrCandidateNotFound
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
