package domain

import "time"

// SourceFile identifies one uploaded file before extraction.
// The upload layer owns the file on disk; the core only reads it.
type SourceFile struct {
	// Path is the validated local filesystem path.
	Path string

	// Size is the file size in bytes.
	Size int64

	// Ext is the lower-cased filename extension including the dot.
	Ext string
}

// Document represents the extracted plain text of one source file.
// It is immutable once produced by an extractor.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Path is the source file the text was extracted from.
	Path string

	// Title is the human-readable title derived from the filename.
	Title string

	// Content is the full plain text after extraction.
	// Long documents are truncated at the configured character ceiling.
	Content string

	// Truncated reports whether Content was cut at the ceiling.
	Truncated bool

	// CreatedAt is when the document was extracted.
	CreatedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Documents are split into chunks for granular retrieval.
// Chunks are never mutated after creation.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

// RetrievedChunk is a chunk returned by a similarity query,
// paired with its relevance score.
type RetrievedChunk struct {
	Chunk Chunk

	// Score is the similarity to the query. Higher is more relevant.
	// Results from a query are ordered by non-increasing Score.
	Score float64
}

// Answer is the response produced for a question, together with the
// context chunks it was grounded on.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Contexts are the retrieved chunks handed to the answer generator,
	// most relevant first. Empty when no chunk cleared the relevance
	// threshold.
	Contexts []RetrievedChunk
}

// IndexKind selects the similarity index implementation.
type IndexKind string

const (
	// IndexKindDense indexes chunks by embedding vectors.
	IndexKindDense IndexKind = "dense"

	// IndexKindSparse indexes chunks by TF-IDF term vectors.
	IndexKindSparse IndexKind = "sparse"
)

// Valid reports whether the kind names a known index implementation.
func (k IndexKind) Valid() bool {
	return k == IndexKindDense || k == IndexKindSparse
}

// String returns the kind name.
func (k IndexKind) String() string {
	return string(k)
}
