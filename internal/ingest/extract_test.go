package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name, filename, contentType string
		want                        Format
		wantErr                     bool
	}{
		{"txt ext", "resume.TXT", "", FormatText, false},
		{"pdf ext", "cv.pdf", "application/octet-stream", FormatPDF, false},
		{"docx ext", "cv.docx", "", FormatDOCX, false},
		{"mime fallback", "upload", "application/pdf", FormatPDF, false},
		{"mime with params", "upload", "text/plain; charset=utf-8", FormatText, false},
		{"docx mime", "blob", docxMIME, FormatDOCX, false},
		{"legacy doc", "cv.doc", "application/msword", "", true},
		{"unknown", "image.png", "image/png", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(tc.filename, tc.contentType)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrUnsupportedFormat) {
					t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtract_Text(t *testing.T) {
	in, err := Document("dir/alice.txt", "", []byte("Go developer\nKafka"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ID != "alice.txt" || in.Text != "Go developer\nKafka" {
		t.Errorf("unexpected input %+v", in)
	}
}

func TestExtract_PDF(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(40, 10, "Senior developer")
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build pdf: %v", err)
	}

	text, err := Extract(FormatPDF, buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "developer") {
		t.Errorf("expected extracted text, got %q", text)
	}
}

func TestExtract_CorruptPDF(t *testing.T) {
	if _, err := Extract(FormatPDF, []byte("not a pdf")); err == nil {
		t.Error("expected error for corrupt pdf")
	}
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}
	for name, content := range files {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err = f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Python</w:t></w:r><w:r><w:t xml:space="preserve"> &amp; SQL</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Docker</w:t></w:r></w:p>`)

	text, err := Extract(FormatDOCX, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Python & SQL\nDocker\n" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestDocumentText(t *testing.T) {
	got, err := documentText(`<w:body xmlns:w="x"><w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p></w:body>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a\tb\nc\n" {
		t.Errorf("got %q", got)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	if err := os.WriteFile(path, []byte("Go, Kubernetes"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	in, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ID != "job.txt" || in.Text != "Go, Kubernetes" {
		t.Errorf("unexpected input %+v", in)
	}
	if _, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
