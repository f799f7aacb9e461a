// Package recursive provides a structural text splitter.
// It splits on paragraph breaks first, then line breaks, then spaces,
// then characters, merging pieces back up to fill each chunk as close
// to the chunk size as possible without exceeding it.
package recursive

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// separators are tried in order; a piece still longer than the chunk
// size after the last separator is cut at character boundaries.
var separators = []string{"\n\n", "\n", " "}

// Splitter splits document content structurally with overlap.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a recursive splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return "recursive"
}

// Split breaks the document content into ordered, overlapping chunks.
// Every chunk is at most chunkSize characters long, and the
// concatenation of the atomic pieces equals the input, so no
// non-whitespace character is ever lost.
func (s *Splitter) Split(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	atoms := s.atoms(doc.Content, 0)
	texts := s.merge(atoms)

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

// atoms recursively splits text into pieces no longer than chunkSize.
// SplitAfter keeps each separator attached to its piece, so the
// concatenation of all atoms reproduces the input exactly.
func (s *Splitter) atoms(text string, sepIdx int) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	if sepIdx >= len(separators) {
		// Last resort: cut at character boundaries.
		var out []string
		for start := 0; start < len(text); start += s.chunkSize {
			end := start + s.chunkSize
			if end > len(text) {
				end = len(text)
			}
			out = append(out, text[start:end])
		}
		return out
	}

	parts := strings.SplitAfter(text, separators[sepIdx])
	if len(parts) == 1 {
		return s.atoms(text, sepIdx+1)
	}

	var out []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, s.atoms(part, sepIdx+1)...)
	}
	return out
}

// merge greedily concatenates atoms into chunks of at most chunkSize
// characters. When a chunk closes, the next chunk is seeded with its
// tail so adjacent chunks share an overlap region. The seed is capped
// so the size bound still holds.
func (s *Splitter) merge(atoms []string) []string {
	var chunks []string
	var cur strings.Builder

	flush := func() string {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			chunks = append(chunks, text)
		}
		closed := cur.String()
		cur.Reset()
		return closed
	}

	for _, atom := range atoms {
		if cur.Len()+len(atom) > s.chunkSize && cur.Len() > 0 {
			closed := flush()

			seedLen := s.overlap
			if max := s.chunkSize - len(atom); seedLen > max {
				seedLen = max
			}
			if seedLen > 0 && seedLen <= len(closed) {
				cur.WriteString(closed[len(closed)-seedLen:])
			}
		}
		cur.WriteString(atom)
	}
	flush()

	return chunks
}
