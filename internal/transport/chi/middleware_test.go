package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestJSONRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := JSONRecoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/rankings/x", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	if code := decodeError(t, rr).Code; code != ErrorResponseCodeInternalError {
		t.Errorf("code: got %s", code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("expected the panic to be logged")
	}
}

func TestWideEventMiddleware_LogsRunID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := WideEventMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Run-ID", "run-42")
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/rankings", http.NoBody))

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one canonical log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["run_id"] != "run-42" {
		t.Errorf("run_id: got %v", fields["run_id"])
	}
	if fields["status"] != int64(http.StatusCreated) {
		t.Errorf("status: got %v", fields["status"])
	}
}

func TestNewRouter(t *testing.T) {
	s, _ := newTestServer(t, termEmbedder())
	h := NewRouter(s, []string{"secret"}, zap.NewNop())

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"health without auth", http.MethodGet, "/health", "", http.StatusOK},
		{"usage requires auth", http.MethodGet, "/usage", "", http.StatusUnauthorized},
		{"usage with auth", http.MethodGet, "/usage", "Bearer secret", http.StatusOK},
		{"unknown route", http.MethodGet, "/v2/nothing", "Bearer secret", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/usage", "Bearer secret", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d: %s", rr.Code, tt.want, rr.Body.String())
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
		})
	}
}
