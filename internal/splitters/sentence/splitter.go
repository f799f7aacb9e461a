// Package sentence provides a sentence-accumulation text splitter.
// Sentences are accumulated greedily into a chunk until adding the
// next one would exceed the chunk size; that sentence then seeds the
// following chunk. There is no overlap between chunks.
package sentence

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// sentencePattern matches a sentence terminated by ., ! or ?, or a
// trailing fragment without terminal punctuation.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Splitter splits document content into sentence-bounded chunks.
type Splitter struct {
	chunkSize     int
	minChunkChars int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the soft maximum chunk size in characters.
// A single sentence longer than the chunk size becomes its own chunk.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithMinChunkChars sets the noise floor; chunks shorter than this
// after trimming are discarded.
func WithMinChunkChars(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.minChunkChars = n
		}
	}
}

// New creates a sentence splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:     domain.DefaultChunkSize,
		minChunkChars: domain.DefaultMinChunkChars,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return "sentence"
}

// Split breaks the document content into sentence-accumulated chunks.
func (s *Splitter) Split(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	trimmed := strings.TrimSpace(doc.Content)
	if trimmed == "" {
		return nil, nil
	}

	sentences := sentencePattern.FindAllString(trimmed, -1)
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	var texts []string
	var cur strings.Builder

	flush := func() {
		text := strings.TrimSpace(cur.String())
		cur.Reset()
		if len(text) >= s.minChunkChars {
			texts = append(texts, text)
		}
	}

	for _, sent := range sentences {
		if sent == "" {
			continue
		}
		if cur.Len() > 0 && cur.Len()+1+len(sent) > s.chunkSize {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(sent)
	}
	flush()

	// Guarantee non-empty output for non-empty input: when every chunk
	// fell under the noise floor, keep the whole trimmed text as one
	// chunk instead of returning nothing.
	if len(texts) == 0 {
		texts = append(texts, trimmed)
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    text,
			Position:   i,
		})
	}
	return chunks, nil
}
