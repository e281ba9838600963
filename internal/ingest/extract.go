// Package ingest turns uploaded .txt, .pdf and .docx files into raw text.
package ingest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
	"github.com/kailas-cloud/resumerank/internal/metrics"
)

// Format is a supported source document type.
type Format string

// Supported formats.
const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DetectFormat picks the format from the file extension, falling back to the content type.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text", ".md":
		return FormatText, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch mt {
		case "text/plain", "text/markdown":
			return FormatText, nil
		case "application/pdf":
			return FormatPDF, nil
		case docxMIME:
			return FormatDOCX, nil
		}
	}
	return "", fmt.Errorf("%q (%s): %w", filename, contentType, domain.ErrUnsupportedFormat)
}

// Extract returns the text of data in the given format.
func Extract(format Format, data []byte) (string, error) {
	switch format {
	case FormatText:
		return string(data), nil
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("format %q: %w", format, domain.ErrUnsupportedFormat)
	}
}

// Document detects the format of an uploaded file and returns it as a ranking input
// keyed by its file name.
func Document(filename, contentType string, data []byte) (domrank.Input, error) {
	format, err := DetectFormat(filename, contentType)
	if err != nil {
		metrics.IngestedDocumentsTotal.WithLabelValues("unknown", "unsupported").Inc()
		return domrank.Input{}, err
	}
	text, err := Extract(format, data)
	metrics.IngestedDocumentsTotal.WithLabelValues(string(format), metrics.Status(err)).Inc()
	if err != nil {
		return domrank.Input{}, fmt.Errorf("extract %s: %w", filename, err)
	}
	return domrank.Input{ID: filepath.Base(filename), Text: text}, nil
}

// ReadFile loads a document from disk.
func ReadFile(path string) (domrank.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domrank.Input{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Document(path, "", data)
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return documentText(doc.Editable().GetContent())
}

// documentText keeps the <w:t> runs of a WordprocessingML body, one line per paragraph.
func documentText(body string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
