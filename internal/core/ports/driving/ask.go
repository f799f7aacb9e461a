package driving

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// AskService answers natural-language questions grounded on an index.
type AskService interface {
	// Ask retrieves context for the question from the index and hands
	// it to the answer generator. When no chunk clears the relevance
	// threshold it returns a fixed "not enough information" answer
	// without calling the generator. Never errors on empty retrieval.
	Ask(ctx context.Context, index driven.Index, question string) (*domain.Answer, error)

	// Retrieve returns the raw context chunks for a question without
	// generating an answer.
	Retrieve(ctx context.Context, index driven.Index, question string) ([]domain.RetrievedChunk, error)
}
