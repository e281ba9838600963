// Package ranking holds the value objects of a ranking run: documents, candidate
// results and the ranked list with its ordering rules.
package ranking

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/resumerank/internal/domain"
	"github.com/kailas-cloud/resumerank/internal/domain/keyword"
)

// MaxIDLength bounds document identifiers (file names in practice).
const MaxIDLength = 512

// Input is a caller-owned (document_id, raw_text) pair as produced by ingestion.
type Input struct {
	ID   string
	Text string
}

// ValidateInputs checks ids: non-empty, bounded, unique within the run.
func ValidateInputs(inputs []Input) error {
	seen := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		if in.ID == "" {
			return fmt.Errorf("document %d: id is required: %w", i, domain.ErrInvalidDocument)
		}
		if len(in.ID) > MaxIDLength {
			return fmt.Errorf("document %d: id too long (max %d): %w", i, MaxIDLength, domain.ErrInvalidDocument)
		}
		if _, dup := seen[in.ID]; dup {
			return fmt.Errorf("document %q: duplicate id: %w", in.ID, domain.ErrInvalidDocument)
		}
		seen[in.ID] = struct{}{}
	}
	return nil
}

// Document is a normalized text with an optional embedding (immutable value object).
type Document struct {
	id        string
	text      string
	embedding []float32
}

// NewDocument creates a Document from already-normalized text.
func NewDocument(id, normalized string) Document {
	return Document{id: id, text: normalized}
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Text returns the normalized text.
func (d Document) Text() string { return d.text }

// Embedding returns the attached vector, nil before scoring.
func (d Document) Embedding() []float32 { return d.embedding }

// HasEmbedding reports whether a vector has been attached.
func (d Document) HasEmbedding() bool { return len(d.embedding) > 0 }

// WithEmbedding returns a copy of d carrying vec.
func (d Document) WithEmbedding(vec []float32) Document {
	d.embedding = slices.Clone(vec)
	return d
}

// JobDescription is the reference document of a run and owns its keyword set.
type JobDescription struct {
	Document
	keywords keyword.Set
}

// NewJobDescription binds the extracted keywords to the job document.
func NewJobDescription(doc Document, keywords keyword.Set) JobDescription {
	return JobDescription{Document: doc, keywords: keywords}
}

// Keywords returns the reference keyword set.
func (j JobDescription) Keywords() keyword.Set { return j.keywords }

// WithEmbedding returns a copy of j carrying vec.
func (j JobDescription) WithEmbedding(vec []float32) JobDescription {
	j.Document = j.Document.WithEmbedding(vec)
	return j
}
