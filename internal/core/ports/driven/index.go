package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// Index answers similarity queries over a fixed chunk collection.
// An index is built once per document set and read many times; it is
// never updated incrementally. Queries on one index instance are safe
// to run concurrently with each other, but not with a rebuild of the
// same instance.
type Index interface {
	// Kind identifies the index implementation.
	Kind() domain.IndexKind

	// Query returns the topK most relevant chunks for the query text,
	// most relevant first. Scores are non-increasing. A query that
	// matches nothing returns an empty slice, never an error.
	Query(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error)

	// Chunks returns the indexed chunk collection in build order.
	Chunks() []domain.Chunk

	// Encode writes the serialized index payload.
	Encode(w io.Writer) error
}

// IndexBuilder constructs an Index from a chunk collection and reopens
// serialized payloads it previously produced.
type IndexBuilder interface {
	// Kind identifies the index implementation this builder produces.
	Kind() domain.IndexKind

	// Build creates an index over the chunks. Returns
	// domain.ErrEmptyInput when the chunk collection is empty.
	Build(ctx context.Context, chunks []domain.Chunk) (Index, error)

	// Open reconstructs an index from a payload written by Encode.
	Open(r io.Reader) (Index, error)
}
