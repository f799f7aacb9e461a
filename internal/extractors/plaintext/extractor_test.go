package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

func TestSupportedExtensions(t *testing.T) {
	e := New()
	assert.Equal(t, []string{".txt"}, e.SupportedExtensions())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes_today.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\nsecond line"), 0600))

	doc, err := New().Extract(context.Background(), path)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "notes today", doc.Title)
	assert.Equal(t, "hello world\nsecond line", doc.Content)
	assert.False(t, doc.Truncated)
}

func TestExtract_InvalidUTF8Replaced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin1.txt")
	// 0xFF is not valid UTF-8
	require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xFF}, 0600))

	doc, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "caf�", doc.Content)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/tmp/report.txt", "report"},
		{"/tmp/my_notes-final.txt", "my notes final"},
		{"plain", "plain"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, titleFromPath(tc.path))
		})
	}
}
