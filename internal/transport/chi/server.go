package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
	domusage "github.com/kailas-cloud/resumerank/internal/domain/usage"
	"github.com/kailas-cloud/resumerank/internal/ingest"
	logpkg "github.com/kailas-cloud/resumerank/internal/logger"
	exportuc "github.com/kailas-cloud/resumerank/internal/usecase/export"
	feedbackuc "github.com/kailas-cloud/resumerank/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/resumerank/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
	usageuc "github.com/kailas-cloud/resumerank/internal/usecase/usage"
)

const (
	// DefaultMaxDocuments bounds the resumes of one request.
	DefaultMaxDocuments = 200
	// DefaultMaxUploadBytes bounds a multipart upload.
	DefaultMaxUploadBytes = 32 << 20

	// statusClientClosedRequest is logged when the caller went away mid-run.
	statusClientClosedRequest = 499

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the ranking API.
type Server struct {
	ranking        *rankinguc.Service
	exports        *exportuc.Service
	composer       *feedbackuc.Composer
	usage          *usageuc.Service
	health         *healthuc.Service
	logger         *zap.Logger
	maxDocuments   int
	maxUploadBytes int64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ranking *rankinguc.Service,
	exports *exportuc.Service,
	composer *feedbackuc.Composer,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		ranking:        ranking,
		exports:        exports,
		composer:       composer,
		usage:          usage,
		health:         health,
		logger:         logger,
		maxDocuments:   DefaultMaxDocuments,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidWeight, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrEmptyJobDescription, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrEmptyDocument, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrUnsupportedFormat,
			http.StatusUnsupportedMediaType, ErrorResponseCodeUnsupportedFormat),
		sentinelHandler(domain.ErrRunNotFound, http.StatusNotFound, ErrorResponseCodeRunNotFound),
		sentinelHandler(domain.ErrCandidateNotFound, http.StatusNotFound, ErrorResponseCodeCandidateNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorResponseCodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded,
			http.StatusPaymentRequired, ErrorResponseCodeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrExportUnavailable,
			http.StatusServiceUnavailable, ErrorResponseCodeExportUnavailable),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, ErrorResponseCodeTimeout),
		sentinelHandler(context.Canceled, statusClientClosedRequest, ErrorResponseCodeCanceled),
	}
	return s
}

// WithMaxDocuments overrides the per-request resume limit.
func (s *Server) WithMaxDocuments(n int) *Server {
	if n > 0 {
		s.maxDocuments = n
	}
	return s
}

// WithMaxUploadBytes overrides the multipart upload limit.
func (s *Server) WithMaxUploadBytes(n int64) *Server {
	if n > 0 {
		s.maxUploadBytes = n
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/usage", s.GetUsage)

	r.Route("/v1/rankings", func(r chi.Router) {
		r.Post("/", s.CreateRanking)
		r.Post("/upload", s.UploadRanking)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetRanking)
			r.Get("/export.xlsx", s.ExportWorkbook)
			r.Get("/feedback.pdf", s.FeedbackPDF)
			r.Post("/sheets", s.AppendToSheet)
			r.Get("/candidates/{docID}/feedback.txt", s.CandidateFeedbackText)
			r.Get("/candidates/{docID}/feedback.pdf", s.CandidateFeedbackPDF)
		})
	})
}

// CreateRanking handles POST /v1/rankings.
func (s *Server) CreateRanking(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	docs := make([]domrank.Input, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = domrank.Input{ID: d.ID, Text: d.Text}
	}

	maxKeywords := 0
	if req.MaxKeywords != nil {
		maxKeywords = *req.MaxKeywords
	}

	s.rank(w, r, rankinguc.Request{
		JobDescription:  req.JobDescription,
		Documents:       docs,
		Weight:          req.WeightSimilarity,
		MaxKeywords:     maxKeywords,
		PartialOnCancel: req.PartialOnCancel,
	})
}

// UploadParams are the query options of POST /v1/rankings/upload.
type UploadParams struct {
	Weight      *float64
	MaxKeywords *int
}

// UploadRanking handles POST /v1/rankings/upload: multipart "job" file or "job_text"
// field plus one or more "resumes" files.
func (s *Server) UploadRanking(w http.ResponseWriter, r *http.Request) {
	var params UploadParams
	if err := runtime.BindQueryParameter("form", true, false, "weight", r.URL.Query(), &params.Weight); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter weight")
		return
	}
	if err := runtime.BindQueryParameter(
		"form", true, false, "max_keywords", r.URL.Query(), &params.MaxKeywords,
	); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter max_keywords")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	job, err := jobFromForm(r.MultipartForm)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	files := r.MultipartForm.File["resumes"]
	docs := make([]domrank.Input, 0, len(files))
	for _, fh := range files {
		doc, err := documentFromPart(fh)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		docs = append(docs, doc)
	}

	req := rankinguc.Request{JobDescription: job, Documents: docs, Weight: params.Weight}
	if params.MaxKeywords != nil {
		req.MaxKeywords = *params.MaxKeywords
	}
	s.rank(w, r, req)
}

func (s *Server) rank(w http.ResponseWriter, r *http.Request, req rankinguc.Request) {
	if len(req.Documents) > s.maxDocuments {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed,
			fmt.Sprintf("documents count must not exceed %d", s.maxDocuments))
		return
	}
	if req.MaxKeywords < 0 {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "max_keywords must not be negative")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	list, err := s.ranking.Run(ctx, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.log(r).Info("ranking run completed",
		zap.String("run_id", list.RunID()),
		zap.Int("documents", list.Len()),
		zap.Int("degraded", list.DegradedCount()),
		zap.Bool("partial", list.Partial()),
	)

	w.Header().Set("X-Run-ID", list.RunID())
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, rankingToResponse(list, s.composer.ComposeAll(list)))
}

// GetRanking handles GET /v1/rankings/{id}.
func (s *Server) GetRanking(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	list, err := s.ranking.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rankingToResponse(list, s.composer.ComposeAll(list)))
}

// ExportWorkbook handles GET /v1/rankings/{id}/export.xlsx.
func (s *Server) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	data, err := s.exports.RunWorkbook(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeAttachment(w, xlsxContentType, "ranking-"+id+".xlsx", data)
}

// FeedbackPDF handles GET /v1/rankings/{id}/feedback.pdf.
func (s *Server) FeedbackPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	data, err := s.exports.RunFeedbackDocument(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeAttachment(w, pdfContentType, "feedback-"+id+".pdf", data)
}

// AppendToSheet handles POST /v1/rankings/{id}/sheets.
func (s *Server) AppendToSheet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	n, err := s.exports.RunToSheet(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SheetsResponse{RunID: id, RowsAppended: n})
}

// CandidateFeedbackText handles GET /v1/rankings/{id}/candidates/{docID}/feedback.txt.
func (s *Server) CandidateFeedbackText(w http.ResponseWriter, r *http.Request) {
	id, docID, ok := s.candidateParams(w, r)
	if !ok {
		return
	}
	fb, err := s.exports.CandidateFeedback(r.Context(), id, docID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeAttachment(w, "text/plain; charset=utf-8", "feedback-"+docID+".txt", []byte(fb.String()))
}

// CandidateFeedbackPDF handles GET /v1/rankings/{id}/candidates/{docID}/feedback.pdf.
func (s *Server) CandidateFeedbackPDF(w http.ResponseWriter, r *http.Request) {
	id, docID, ok := s.candidateParams(w, r)
	if !ok {
		return
	}
	data, err := s.exports.CandidateFeedbackDocument(r.Context(), id, docID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeAttachment(w, pdfContentType, "feedback-"+docID+".pdf", data)
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &raw); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter period")
		return
	}
	period, err := domusage.ParsePeriod(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, usageToResponse(s.usage.GetReport(r.Context(), period)))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || v == "" {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter "+name)
		return "", false
	}
	return v, true
}

func (s *Server) candidateParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return "", "", false
	}
	docID, ok := s.pathParam(w, r, "docID")
	if !ok {
		return "", "", false
	}
	return id, docID, true
}

func jobFromForm(form *multipart.Form) (string, error) {
	if files := form.File["job"]; len(files) > 0 {
		doc, err := documentFromPart(files[0])
		if err != nil {
			return "", fmt.Errorf("job description: %w", err)
		}
		return doc.Text, nil
	}
	if vals := form.Value["job_text"]; len(vals) > 0 {
		return vals[0], nil
	}
	return "", fmt.Errorf("job or job_text is required: %w", domain.ErrEmptyJobDescription)
}

func documentFromPart(fh *multipart.FileHeader) (domrank.Input, error) {
	f, err := fh.Open()
	if err != nil {
		return domrank.Input{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domrank.Input{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	doc, err := ingest.Document(fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return domrank.Input{}, fmt.Errorf("ingest: %w", err)
	}
	return doc, nil
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Calls() > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.FormatInt(usage.TotalTokens(), 10))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Validation sentinels carry the full chain since it names the offending input.
func safeDomainMessage(err error) string {
	for _, s := range []error{
		domain.ErrInvalidWeight,
		domain.ErrEmptyJobDescription,
		domain.ErrInvalidDocument,
		domain.ErrEmptyDocument,
		domain.ErrUnsupportedFormat,
	} {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	sentinels := []error{
		domain.ErrRunNotFound,
		domain.ErrCandidateNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrExportUnavailable,
		context.DeadlineExceeded,
		context.Canceled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.log(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

// log returns the request-scoped logger, or the server logger outside the middleware stack.
func (s *Server) log(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}
