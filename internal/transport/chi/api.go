package chi

import (
	"time"

	domfb "github.com/kailas-cloud/resumerank/internal/domain/feedback"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
	domusage "github.com/kailas-cloud/resumerank/internal/domain/usage"
	healthuc "github.com/kailas-cloud/resumerank/internal/usecase/health"
)

// ErrorResponseCode is the machine-readable error code of an ErrorResponse.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest             ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized           ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed       ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnsupportedFormat      ErrorResponseCode = "unsupported_format"
	ErrorResponseCodeRunNotFound            ErrorResponseCode = "run_not_found"
	ErrorResponseCodeCandidateNotFound      ErrorResponseCode = "candidate_not_found"
	ErrorResponseCodeRateLimited            ErrorResponseCode = "rate_limited"
	ErrorResponseCodeEmbeddingQuotaExceeded ErrorResponseCode = "embedding_quota_exceeded"
	ErrorResponseCodeEmbeddingProviderError ErrorResponseCode = "embedding_provider_error"
	ErrorResponseCodeExportUnavailable      ErrorResponseCode = "export_unavailable"
	ErrorResponseCodeCanceled               ErrorResponseCode = "canceled"
	ErrorResponseCodeTimeout                ErrorResponseCode = "timeout"
	ErrorResponseCodeInternalError          ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// DocumentInput is one resume in a ranking request.
type DocumentInput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// RankRequest is the body of POST /v1/rankings.
type RankRequest struct {
	JobDescription   string          `json:"job_description"`
	Documents        []DocumentInput `json:"documents"`
	WeightSimilarity *float64        `json:"weight_similarity,omitempty"`
	MaxKeywords      *int            `json:"max_keywords,omitempty"`
	PartialOnCancel  *bool           `json:"partial_on_cancel,omitempty"`
}

// CandidateResponse is one ranked resume.
type CandidateResponse struct {
	DocumentID      string   `json:"document_id"`
	Rank            int      `json:"rank"`
	CompositeScore  float64  `json:"composite_score"`
	SimilarityScore float64  `json:"similarity_score"`
	KeywordCoverage float64  `json:"keyword_coverage"`
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	Degraded        bool     `json:"degraded"`
	DegradedReason  *string  `json:"degraded_reason,omitempty"`
	Preview         string   `json:"preview,omitempty"`
	Feedback        string   `json:"feedback,omitempty"`
}

// RankingResponse is a ranked list with per-candidate feedback.
type RankingResponse struct {
	RunID            string              `json:"run_id"`
	WeightSimilarity float64             `json:"weight_similarity"`
	Keywords         []string            `json:"keywords"`
	Partial          bool                `json:"partial"`
	DegradedCount    int                 `json:"degraded_count"`
	CreatedAt        time.Time           `json:"created_at"`
	Results          []CandidateResponse `json:"results"`
}

// SheetsResponse reports a Google Sheets append.
type SheetsResponse struct {
	RunID        string `json:"run_id"`
	RowsAppended int    `json:"rows_appended"`
}

// BudgetStatus is the token budget part of UsageResponse.
type BudgetStatus struct {
	TokensLimit     int64      `json:"tokens_limit"`
	TokensRemaining int64      `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// UsageResponse is the body of GET /usage.
type UsageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt time.Time    `json:"period_start_at"`
	PeriodEndAt   time.Time    `json:"period_end_at"`
	Tokens        int64        `json:"tokens"`
	Budget        BudgetStatus `json:"budget"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func rankingToResponse(list domrank.RankedList, feedback []domfb.Text) RankingResponse {
	results := list.Results()
	items := make([]CandidateResponse, len(results))
	for i, r := range results {
		items[i] = CandidateResponse{
			DocumentID:      r.DocumentID(),
			Rank:            r.Rank(),
			CompositeScore:  r.Composite(),
			SimilarityScore: r.Similarity(),
			KeywordCoverage: r.Coverage(),
			MatchedKeywords: nonNil(r.Matched().Items()),
			MissingKeywords: nonNil(r.Missing().Items()),
			Degraded:        r.Degraded(),
			Preview:         r.Preview(),
		}
		if reason := r.DegradedReason(); reason != "" {
			items[i].DegradedReason = &reason
		}
		if i < len(feedback) {
			items[i].Feedback = feedback[i].String()
		}
	}
	return RankingResponse{
		RunID:            list.RunID(),
		WeightSimilarity: list.Weight(),
		Keywords:         nonNil(list.Keywords().Items()),
		Partial:          list.Partial(),
		DegradedCount:    list.DegradedCount(),
		CreatedAt:        time.UnixMilli(list.CreatedAt()).UTC(),
		Results:          items,
	}
}

func usageToResponse(r domusage.Report) UsageResponse {
	b := r.Budget()
	resp := UsageResponse{
		Period:        string(r.Period()),
		PeriodStartAt: time.UnixMilli(r.PeriodStart()).UTC(),
		PeriodEndAt:   time.UnixMilli(r.PeriodEnd()).UTC(),
		Tokens:        r.Tokens(),
		Budget: BudgetStatus{
			TokensLimit:     b.Limit,
			TokensRemaining: b.Remaining,
			IsExhausted:     b.Exhausted(),
		},
	}
	if b.Limit > 0 && b.ResetsAt > 0 {
		resetsAt := time.UnixMilli(b.ResetsAt).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}
	return resp
}

func healthToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
