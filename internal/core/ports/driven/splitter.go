package driven

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// Splitter splits document text into bounded chunks for retrieval.
// Splitting is deterministic: the same document and configuration
// always produce the same chunks.
type Splitter interface {
	// Name returns the splitter name for logging and configuration.
	Name() string

	// Split breaks the document content into ordered chunks.
	// Every non-whitespace character of the input appears in at least
	// one chunk, except fragments dropped as sub-minimum noise.
	// Non-empty input (after trimming) yields at least one chunk.
	Split(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
