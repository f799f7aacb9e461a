package driven

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// BuildIndexFunc builds a fresh index on a cache miss.
type BuildIndexFunc func(ctx context.Context) (Index, error)

// IndexCache persists built indexes keyed by a content fingerprint of
// their source files, so a repeated upload of identical content reuses
// the stored index instead of rebuilding.
type IndexCache interface {
	// Fingerprint derives the cache key for a set of source files.
	// It is deterministic over file paths and content prefixes.
	Fingerprint(files []domain.SourceFile) (string, error)

	// GetOrBuild returns the cached index for the files when present
	// and fresh, reopening it through the builder. On a miss it calls
	// build, stores the result keyed by the fingerprint, and returns
	// it. Store failures are non-fatal: the fresh index is returned
	// uncached.
	GetOrBuild(ctx context.Context, files []domain.SourceFile, builder IndexBuilder, build BuildIndexFunc) (Index, bool, error)

	// Sweep removes entries older than the configured max age.
	// Failures on individual entries are logged and skipped.
	Sweep(ctx context.Context) error

	// Clear removes all cache entries.
	Clear(ctx context.Context) error
}
