package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/cache"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/index/sparse"
)

// fakeExtractor reads files verbatim, standing in for the real
// plaintext extractor.
type fakeExtractor struct{}

func (fakeExtractor) SupportedExtensions() []string { return []string{".txt"} }

func (fakeExtractor) Extract(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.Document{
		ID:        path,
		Path:      path,
		Title:     filepath.Base(path),
		Content:   string(data),
		CreatedAt: time.Now(),
	}, nil
}

// failingExtractor simulates a broken file of a supported format.
type failingExtractor struct{}

func (failingExtractor) SupportedExtensions() []string { return []string{".pdf"} }

func (failingExtractor) Extract(context.Context, string) (*domain.Document, error) {
	return nil, fmt.Errorf("%w: synthetic failure", domain.ErrExtraction)
}

type fakeRegistry struct {
	byExt map[string]driven.Extractor
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{byExt: map[string]driven.Extractor{
		".txt": fakeExtractor{},
		".pdf": failingExtractor{},
	}}
}

func (r *fakeRegistry) ForExtension(ext string) (driven.Extractor, error) {
	e, ok := r.byExt[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return e, nil
}

func (r *fakeRegistry) Extensions() []string { return []string{".pdf", ".txt"} }

// lineSplitter chunks on line boundaries, one chunk per line.
type lineSplitter struct{}

func (lineSplitter) Name() string { return "line" }

func (lineSplitter) Split(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, line := range strings.Split(doc.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s#%d", doc.ID, len(chunks)),
			DocumentID: doc.ID,
			Content:    line,
			Position:   len(chunks),
		})
	}
	return chunks, nil
}

// countingBuilder counts Build calls to observe cache behavior.
type countingBuilder struct {
	inner  driven.IndexBuilder
	builds int
}

func (b *countingBuilder) Kind() domain.IndexKind { return b.inner.Kind() }

func (b *countingBuilder) Build(ctx context.Context, chunks []domain.Chunk) (driven.Index, error) {
	b.builds++
	return b.inner.Build(ctx, chunks)
}

func (b *countingBuilder) Open(r io.Reader) (driven.Index, error) {
	return b.inner.Open(r)
}

func newTestIngest(t *testing.T, withCache bool) (*IngestService, *countingBuilder) {
	t.Helper()
	builder := &countingBuilder{
		inner: sparse.NewBuilder(sparse.DefaultMaxFeatures, domain.DefaultRelevanceThreshold),
	}
	var ixCache driven.IndexCache
	if withCache {
		c, err := cache.New(t.TempDir())
		require.NoError(t, err)
		ixCache = c
	}
	svc := NewIngestService(newFakeRegistry(), lineSplitter{}, builder, ixCache, NewPool(2), domain.DefaultSettings())
	return svc, builder
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngest_BuildsIndexFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "horoscope.txt",
		"Aries: good luck today\nTaurus: be patient with money\nGemini: communication is key\n")

	svc, builder := newTestIngest(t, false)
	ix, report, err := svc.Ingest(context.Background(), []string{path})

	require.NoError(t, err)
	assert.Equal(t, 1, builder.builds)
	assert.Equal(t, 3, report.ChunkCount)
	assert.False(t, report.FromCache)
	assert.Empty(t, report.Failed())

	results, err := ix.Query(context.Background(), "Will I have luck?", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Chunk.Content, "luck")
}

func TestIngest_PartialFailuresDoNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.txt", "Aries: good luck today")
	broken := writeSource(t, dir, "broken.pdf", "%PDF garbage")
	unsupported := writeSource(t, dir, "image.png", "not text")
	missing := filepath.Join(dir, "missing.txt")

	svc, _ := newTestIngest(t, false)
	ix, report, err := svc.Ingest(context.Background(), []string{good, broken, unsupported, missing})

	require.NoError(t, err)
	require.NotNil(t, ix)
	require.Len(t, report.Results, 4)

	failed := report.Failed()
	require.Len(t, failed, 3)
	byPath := map[string]error{}
	for _, f := range failed {
		byPath[f.File.Path] = f.Err
	}
	assert.ErrorIs(t, byPath[broken], domain.ErrExtraction)
	assert.ErrorIs(t, byPath[unsupported], domain.ErrUnsupportedFormat)
	assert.ErrorIs(t, byPath[missing], domain.ErrNotFound)
}

func TestIngest_OversizedFileExcluded(t *testing.T) {
	dir := t.TempDir()
	big := writeSource(t, dir, "big.txt", strings.Repeat("x", 200))
	small := writeSource(t, dir, "small.txt", "Taurus: be patient")

	builder := &countingBuilder{
		inner: sparse.NewBuilder(sparse.DefaultMaxFeatures, domain.DefaultRelevanceThreshold),
	}
	settings := domain.DefaultSettings()
	settings.MaxFileSize = 100
	svc := NewIngestService(newFakeRegistry(), lineSplitter{}, builder, nil, NewPool(2), settings)

	_, report, err := svc.Ingest(context.Background(), []string{big, small})

	require.NoError(t, err)
	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, big, failed[0].File.Path)
	assert.ErrorIs(t, failed[0].Err, domain.ErrFileTooLarge)
}

func TestIngest_AllFilesUnusable(t *testing.T) {
	dir := t.TempDir()
	unsupported := writeSource(t, dir, "image.png", "not text")

	svc, builder := newTestIngest(t, false)
	_, report, err := svc.Ingest(context.Background(), []string{unsupported})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Equal(t, 0, builder.builds)
	require.Len(t, report.Failed(), 1)
}

func TestIngest_NoPaths(t *testing.T) {
	svc, _ := newTestIngest(t, false)
	_, _, err := svc.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestIngest_SecondIdenticalUploadHitsCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "doc.txt", "Aries: good luck today\nTaurus: be patient")

	svc, builder := newTestIngest(t, true)

	_, first, err := svc.Ingest(context.Background(), []string{path})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, builder.builds)

	ix, second, err := svc.Ingest(context.Background(), []string{path})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, builder.builds, "cache hit must not rebuild")
	assert.Equal(t, 2, second.ChunkCount)

	results, err := ix.Query(context.Background(), "Will I have luck?", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Chunk.Content, "luck")
}

func TestIngest_TruncatesLongDocuments(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("a", 50) + " " + strings.Repeat("b", 50)
	path := writeSource(t, dir, "long.txt", long)

	builder := &countingBuilder{
		inner: sparse.NewBuilder(sparse.DefaultMaxFeatures, 0),
	}
	settings := domain.DefaultSettings()
	settings.MaxDocChars = 60
	svc := NewIngestService(newFakeRegistry(), lineSplitter{}, builder, nil, NewPool(2), settings)

	ix, report, err := svc.Ingest(context.Background(), []string{path})

	require.NoError(t, err)
	require.Len(t, report.Documents(), 1)
	doc := report.Documents()[0]
	assert.True(t, doc.Truncated)
	assert.True(t, strings.HasSuffix(doc.Content, truncationMarker))
	assert.NotNil(t, ix)
}

func TestIngest_ChunkCapDropsOverflow(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("line number %d has content", i))
	}
	path := writeSource(t, dir, "many.txt", strings.Join(lines, "\n"))

	builder := &countingBuilder{
		inner: sparse.NewBuilder(sparse.DefaultMaxFeatures, 0),
	}
	settings := domain.DefaultSettings()
	settings.MaxTotalChunks = 10
	svc := NewIngestService(newFakeRegistry(), lineSplitter{}, builder, nil, NewPool(2), settings)

	ix, report, err := svc.Ingest(context.Background(), []string{path})

	require.NoError(t, err)
	assert.Equal(t, 10, report.ChunkCount)
	assert.Equal(t, 20, report.ChunksDropped)
	assert.Len(t, ix.Chunks(), 10)
}

func TestIngestDocuments_SampleCorpus(t *testing.T) {
	svc, builder := newTestIngest(t, false)

	ix, report, err := svc.IngestDocuments(context.Background(), domain.SampleDocuments())

	require.NoError(t, err)
	assert.Equal(t, 1, builder.builds)
	assert.Greater(t, report.ChunkCount, 0)

	results, err := ix.Query(context.Background(), "Will I have luck?", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestIngestDocuments_Empty(t *testing.T) {
	svc, _ := newTestIngest(t, false)
	_, _, err := svc.IngestDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}
