package splitters

import (
	"fmt"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/splitters/recursive"
	"github.com/custodia-labs/docqa-cli/internal/splitters/sentence"
)

// ForKind creates the splitter selected by the settings.
func ForKind(settings domain.Settings) (driven.Splitter, error) {
	switch settings.Splitter {
	case domain.SplitterRecursive:
		return recursive.New(
			recursive.WithChunkSize(settings.ChunkSize),
			recursive.WithOverlap(settings.ChunkOverlap),
		), nil
	case domain.SplitterSentence:
		return sentence.New(
			sentence.WithChunkSize(settings.ChunkSize),
			sentence.WithMinChunkChars(settings.MinChunkChars),
		), nil
	default:
		return nil, fmt.Errorf("%w: splitter %q", domain.ErrInvalidInput, settings.Splitter)
	}
}
