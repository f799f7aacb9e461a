package driven

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// Extractor converts a source file of a specific format into plain text.
// Each extractor handles one or more filename extensions.
type Extractor interface {
	// SupportedExtensions returns the lower-cased extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string

	// Extract reads the file at path and returns its plain text as a
	// Document. The returned document carries the full extracted text;
	// truncation at the configured ceiling is applied by the caller.
	Extract(ctx context.Context, path string) (*domain.Document, error)
}

// ExtractorRegistry selects an extractor for a source file.
type ExtractorRegistry interface {
	// ForExtension returns the extractor registered for the extension.
	// Returns domain.ErrUnsupportedFormat when none is registered;
	// policy is to skip such files, log, and continue the batch.
	ForExtension(ext string) (Extractor, error)

	// Extensions returns all registered extensions.
	Extensions() []string
}

// CommandRunner executes an external command and returns its output.
// It exists so extractors that shell out (pdftotext) can be tested
// without the tool installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
