// Package sparse provides the lexical TF-IDF similarity index.
// The vectorizer fitted at build time is part of the index: it is
// retained to vectorize queries and frozen once the build completes.
package sparse

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"sort"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.Index        = (*Index)(nil)
	_ driven.IndexBuilder = (*Builder)(nil)
)

// DefaultMaxFeatures caps the fitted vocabulary size.
const DefaultMaxFeatures = 2000

// state is the gob-serialized form of the index.
type state struct {
	Vectorizer *Vectorizer
	Vectors    []map[int]float64
	Chunks     []domain.Chunk
	Threshold  float64
}

// Index answers similarity queries using cosine similarity in TF-IDF
// space. It is read-only after construction.
type Index struct {
	st state
}

// Kind identifies the index implementation.
func (ix *Index) Kind() domain.IndexKind {
	return domain.IndexKindSparse
}

// Chunks returns the indexed chunk collection in build order.
func (ix *Index) Chunks() []domain.Chunk {
	return ix.st.Chunks
}

// Query vectorizes the query with the fitted vectorizer, computes
// cosine similarity against every stored vector, filters matches
// below the relevance threshold and returns the topK best, most
// relevant first. When nothing clears the threshold the result is
// empty, never an error.
func (ix *Index) Query(_ context.Context, query string, topK int) ([]domain.RetrievedChunk, error) {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	qvec := ix.st.Vectorizer.Transform(query)

	results := make([]domain.RetrievedChunk, 0, len(ix.st.Chunks))
	for i, vec := range ix.st.Vectors {
		score := dot(qvec, vec)
		if score < ix.st.Threshold {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk: ix.st.Chunks[i],
			Score: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Encode writes the serialized index payload.
func (ix *Index) Encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(&ix.st)
}

// Builder constructs sparse indexes.
type Builder struct {
	maxFeatures int
	threshold   float64
}

// NewBuilder creates a sparse index builder. The threshold is the
// minimum cosine similarity for a query match to be returned.
func NewBuilder(maxFeatures int, threshold float64) *Builder {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Builder{maxFeatures: maxFeatures, threshold: threshold}
}

// Kind identifies the index implementation this builder produces.
func (b *Builder) Kind() domain.IndexKind {
	return domain.IndexKindSparse
}

// Build fits the vectorizer over the chunk corpus and vectorizes
// every chunk. Returns domain.ErrEmptyInput for an empty collection.
func (b *Builder) Build(_ context.Context, chunks []domain.Chunk) (driven.Index, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyInput
	}

	corpus := make([]string, len(chunks))
	for i, ch := range chunks {
		corpus[i] = ch.Content
	}

	v := NewVectorizer(b.maxFeatures)
	v.Fit(corpus)

	vectors := make([]map[int]float64, len(chunks))
	for i, text := range corpus {
		vectors[i] = v.Transform(text)
	}

	return &Index{st: state{
		Vectorizer: v,
		Vectors:    vectors,
		Chunks:     chunks,
		Threshold:  b.threshold,
	}}, nil
}

// Open reconstructs an index from a payload written by Encode. The
// builder's threshold replaces the serialized one, so a changed
// relevance setting takes effect on cached indexes immediately.
func (b *Builder) Open(r io.Reader) (driven.Index, error) {
	var st state
	if err := gob.NewDecoder(r).Decode(&st); err != nil {
		return nil, fmt.Errorf("decode sparse index: %w", err)
	}
	if st.Vectorizer == nil {
		return nil, fmt.Errorf("decode sparse index: missing vectorizer")
	}
	st.Threshold = b.threshold
	return &Index{st: st}, nil
}
