package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		handler := BearerAuthMiddleware(keys)(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/v1/rankings", http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/v1/rankings", "", http.StatusUnauthorized},
		{"basic scheme", "/v1/rankings", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"invalid token", "/v1/rankings", "Bearer wrong-key", http.StatusUnauthorized},
		{"prefix of valid token", "/v1/rankings", "Bearer key", http.StatusUnauthorized},
		{"first key", "/v1/rankings", "Bearer key1", http.StatusOK},
		{"second key", "/v1/rankings/run-1", "Bearer key2", http.StatusOK},
		{"health is exempt", "/health", "", http.StatusOK},
		{"metrics is exempt", "/metrics", "", http.StatusOK},
		{"usage is not exempt", "/usage", "", http.StatusUnauthorized},
	}

	handler := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorResponseCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorResponseCodeUnauthorized)
			}
		})
	}
}
