// Package dense provides the embedding-vector similarity index.
// Chunk texts are embedded once at build time through the shared
// embedding service; queries are embedded with the same service and
// scored by cosine similarity against every stored vector.
package dense

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.Index        = (*Index)(nil)
	_ driven.IndexBuilder = (*Builder)(nil)
)

// state is the gob-serialized form of the index. The embedding
// service itself is process state, not cache state: only the model
// name is stored, and the service is re-bound on open.
type state struct {
	Model   string
	Vectors [][]float32
	Chunks  []domain.Chunk
}

// Index answers similarity queries in embedding space.
type Index struct {
	st       state
	embedder driven.EmbeddingService
}

// Kind identifies the index implementation.
func (ix *Index) Kind() domain.IndexKind {
	return domain.IndexKindDense
}

// Chunks returns the indexed chunk collection in build order.
func (ix *Index) Chunks() []domain.Chunk {
	return ix.st.Chunks
}

// Query embeds the query with the build-time embedding service and
// returns the topK chunks by cosine similarity, most relevant first.
func (ix *Index) Query(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error) {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	qvec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrEmbeddingService, err)
	}

	results := make([]domain.RetrievedChunk, 0, len(ix.st.Chunks))
	for i, vec := range ix.st.Vectors {
		results = append(results, domain.RetrievedChunk{
			Chunk: ix.st.Chunks[i],
			Score: cosine(qvec, vec),
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

// cosine returns the cosine similarity of two vectors.
// Mismatched lengths and zero vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Builder constructs dense indexes over a shared embedding service.
// The service is an expensive process-wide resource owned by the
// caller; the builder only borrows it.
type Builder struct {
	embedder driven.EmbeddingService
}

// NewBuilder creates a dense index builder.
func NewBuilder(embedder driven.EmbeddingService) *Builder {
	return &Builder{embedder: embedder}
}

// Kind identifies the index implementation this builder produces.
func (b *Builder) Kind() domain.IndexKind {
	return domain.IndexKindDense
}

// Build embeds every chunk and stores the vectors.
// Returns domain.ErrEmptyInput for an empty collection and
// domain.ErrEmbeddingService when embedding fails; there is no
// automatic fallback to the sparse kind.
func (b *Builder) Build(ctx context.Context, chunks []domain.Chunk) (driven.Index, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyInput
	}
	if b.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingService)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed chunks: %v", domain.ErrEmbeddingService, err)
	}

	return &Index{
		st: state{
			Model:   b.embedder.ModelName(),
			Vectors: vectors,
			Chunks:  chunks,
		},
		embedder: b.embedder,
	}, nil
}

// Open reconstructs an index from a payload written by Encode and
// re-binds the process-wide embedding service. A payload built with a
// different model is rejected; the caller rebuilds instead of mixing
// embedding spaces.
func (b *Builder) Open(r io.Reader) (driven.Index, error) {
	if b.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingService)
	}

	var st state
	if err := gob.NewDecoder(r).Decode(&st); err != nil {
		return nil, fmt.Errorf("decode dense index: %w", err)
	}
	if st.Model != b.embedder.ModelName() {
		return nil, fmt.Errorf("dense index built with model %q, current model is %q",
			st.Model, b.embedder.ModelName())
	}
	return &Index{st: st, embedder: b.embedder}, nil
}
