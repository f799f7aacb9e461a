package driving

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// IngestService turns a batch of uploaded files into a queryable index.
type IngestService interface {
	// Ingest extracts, chunks and indexes the files at the given paths.
	// File-level failures are recorded in the report and never abort
	// the batch; index-level failures are returned as errors.
	// Returns domain.ErrEmptyInput when no chunks survive ingestion.
	Ingest(ctx context.Context, paths []string) (driven.Index, *domain.IngestReport, error)

	// IngestDocuments indexes pre-extracted documents, bypassing file
	// access. Used for the built-in sample fallback corpus.
	IngestDocuments(ctx context.Context, docs []domain.Document) (driven.Index, *domain.IngestReport, error)
}
