// Package pdf extracts text from PDF files by shelling out to the
// poppler pdftotext tool. Run behind a CommandRunner so tests can
// inject a fake.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor handles PDF files.
type Extractor struct {
	runner   driven.CommandRunner
	maxPages int
}

// Option configures the PDF extractor.
type Option func(*Extractor)

// WithMaxPages caps the number of pages extracted per document.
// Pages beyond the cap are silently omitted to bound latency.
func WithMaxPages(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

// New creates a PDF extractor using the real pdftotext binary.
func New(opts ...Option) *Extractor {
	return NewWithRunner(execRunner{}, opts...)
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner driven.CommandRunner, opts ...Option) *Extractor {
	e := &Extractor{
		runner:   runner,
		maxPages: domain.DefaultMaxPDFPages,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract converts the PDF to plain text, page by page, concatenated.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.Document, error) {
	if _, real := e.runner.(execRunner); real {
		if err := CheckAvailable(); err != nil {
			return nil, err
		}
	}

	// -l caps the last page converted; earlier pages are concatenated
	// in order with form feeds between them.
	out, err := e.runner.Run(ctx, "pdftotext",
		"-l", strconv.Itoa(e.maxPages),
		"-enc", "UTF-8",
		path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w", path, err)
	}

	content := strings.TrimSpace(strings.ReplaceAll(string(out), "\f", "\n"))

	return &domain.Document{
		ID:        uuid.New().String(),
		Path:      path,
		Title:     titleFrom(content, path),
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns guidance for installing pdftotext.
func InstallInstructions() string {
	return "pdftotext is required for PDF extraction.\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils"
}

// titleFrom uses the first short non-empty line of the content as the
// title, falling back to the filename.
func titleFrom(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > 200 {
			continue
		}
		return line
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
