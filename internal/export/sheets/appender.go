// Package sheets appends ranking results to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

// DefaultRange is the A1 range rows are appended after.
const DefaultRange = "Sheet1!A1"

// TimestampLayout formats the time column.
const TimestampLayout = "2006-01-02 15:04:05"

// Config identifies the target spreadsheet. Credentials are operator-supplied.
type Config struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
}

// Appender writes rows to one spreadsheet.
type Appender struct {
	svc           *sheets.Service
	spreadsheetID string
	rng           string
}

// New creates an Appender authenticated with the configured service account file.
// Extra options (endpoint, HTTP client) are appended after the credentials.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Appender, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id is required")
	}
	var all []option.ClientOption
	if cfg.CredentialsFile != "" {
		all = append(all, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	all = append(all, opts...)

	svc, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	rng := cfg.Range
	if rng == "" {
		rng = DefaultRange
	}
	return &Appender{svc: svc, spreadsheetID: cfg.SpreadsheetID, rng: rng}, nil
}

// Append adds one row per candidate stamped with at. Returns the number of rows written.
func (a *Appender) Append(ctx context.Context, rows []domrank.Row, at time.Time) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	ts := at.Format(TimestampLayout)
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{
			r.DocumentID,
			round4(r.CompositeScore),
			round4(r.SimilarityScore),
			r.Rank,
			strings.Join(r.MatchedKeywords, ", "),
			strings.Join(r.MissingKeywords, ", "),
			r.Degraded,
			ts,
		})
	}

	resp, err := a.svc.Spreadsheets.Values.
		Append(a.spreadsheetID, a.rng, &sheets.ValueRange{Values: values}).
		// RAW keeps file names such as "=IMPORTXML(...).pdf" as plain text.
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append to spreadsheet %s: %w", a.spreadsheetID, err)
	}
	if resp.Updates != nil {
		return int(resp.Updates.UpdatedRows), nil
	}
	return len(values), nil
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
