package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	args   []string
}

func (m *mockRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	m.args = args
	return m.output, m.err
}

func TestSupportedExtensions(t *testing.T) {
	e := New()
	assert.Equal(t, []string{".pdf"}, e.SupportedExtensions())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestExtract_WithMockRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("Report Title\n\nFirst page.\fSecond page.\n")}
	e := NewWithRunner(runner)

	doc, err := e.Extract(context.Background(), "/docs/report.pdf")
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "/docs/report.pdf", doc.Path)
	assert.Equal(t, "Report Title", doc.Title)
	// Form feeds between pages become newlines
	assert.Equal(t, "Report Title\n\nFirst page.\nSecond page.", doc.Content)
}

func TestExtract_PageCapPassedToTool(t *testing.T) {
	runner := &mockRunner{output: []byte("x")}
	e := NewWithRunner(runner, WithMaxPages(7))

	_, err := e.Extract(context.Background(), "/docs/long.pdf")
	require.NoError(t, err)

	assert.Contains(t, runner.args, "-l")
	assert.Contains(t, runner.args, "7")
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}
	e := NewWithRunner(runner)

	_, err := e.Extract(context.Background(), "/docs/broken.pdf")
	assert.Error(t, err)
}

func TestTitleFrom(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		path     string
		expected string
	}{
		{
			name:     "first line as title",
			content:  "Document Title\n\nSome content here.",
			path:     "/doc.pdf",
			expected: "Document Title",
		},
		{
			name:     "skip empty lines",
			content:  "\n\n\nActual Title\nContent",
			path:     "/doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "fallback to filename",
			content:  "",
			path:     "/path/to/my_document.pdf",
			expected: "my document",
		},
		{
			name:     "skip very long first line",
			content:  string(make([]byte, 250)) + "\nShort Title\nContent",
			path:     "/doc.pdf",
			expected: "Short Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, titleFrom(tc.content, tc.path))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}
