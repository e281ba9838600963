package export

import (
	"context"
	"io"
	"time"

	domfb "github.com/kailas-cloud/resumerank/internal/domain/feedback"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

// RunReader loads persisted ranking runs.
type RunReader interface {
	Get(ctx context.Context, runID string) (domrank.RankedList, error)
}

// Composer renders per-candidate feedback.
type Composer interface {
	Compose(r domrank.Result) domfb.Text
	ComposeAll(list domrank.RankedList) []domfb.Text
}

// WorkbookWriter encodes rows as a spreadsheet file.
type WorkbookWriter interface {
	Write(w io.Writer, rows []domrank.Row) error
}

// SheetAppender appends rows to a hosted spreadsheet.
type SheetAppender interface {
	Append(ctx context.Context, rows []domrank.Row, at time.Time) (int, error)
}

// Renderer lays out feedback as a document.
type Renderer interface {
	Render(texts ...domfb.Text) ([]byte, error)
}
