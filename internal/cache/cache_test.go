package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/index/sparse"
)

func writeFile(t *testing.T, dir, name, content string) domain.SourceFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return domain.SourceFile{Path: path, Size: int64(len(content)), Ext: filepath.Ext(name)}
}

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "c1", DocumentID: "d1", Content: "Aries: good luck today", Position: 0},
		{ID: "c2", DocumentID: "d1", Content: "Taurus: be patient with money", Position: 1},
	}
}

func buildFunc(builder driven.IndexBuilder, calls *int) driven.BuildIndexFunc {
	return func(ctx context.Context) (driven.Index, error) {
		*calls++
		return builder.Build(ctx, testChunks())
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha content")
	b := writeFile(t, dir, "b.txt", "beta content")

	c, err := New(t.TempDir())
	require.NoError(t, err)

	fp1, err := c.Fingerprint([]domain.SourceFile{a, b})
	require.NoError(t, err)
	fp2, err := c.Fingerprint([]domain.SourceFile{b, a})
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2, "fingerprint must not depend on file order")
	assert.Len(t, fp1, 64)
}

func TestFingerprint_SensitiveToContentPrefix(t *testing.T) {
	dir := t.TempDir()
	c, err := New(t.TempDir())
	require.NoError(t, err)

	f := writeFile(t, dir, "a.txt", "original content")
	fp1, err := c.Fingerprint([]domain.SourceFile{f})
	require.NoError(t, err)

	f = writeFile(t, dir, "a.txt", "modified content")
	fp2, err := c.Fingerprint([]domain.SourceFile{f})
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)
}

func TestFingerprint_SensitiveToPath(t *testing.T) {
	dir := t.TempDir()
	c, err := New(t.TempDir())
	require.NoError(t, err)

	a := writeFile(t, dir, "a.txt", "same content")
	b := writeFile(t, dir, "b.txt", "same content")

	fp1, err := c.Fingerprint([]domain.SourceFile{a})
	require.NoError(t, err)
	fp2, err := c.Fingerprint([]domain.SourceFile{b})
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)
}

func TestFingerprint_Empty(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)
	_, err = c.Fingerprint(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestGetOrBuild_SecondCallHitsCache(t *testing.T) {
	dir := t.TempDir()
	files := []domain.SourceFile{writeFile(t, dir, "doc.txt", "horoscope text")}

	c, err := New(t.TempDir())
	require.NoError(t, err)

	builder := sparse.NewBuilder(sparse.DefaultMaxFeatures, domain.DefaultRelevanceThreshold)
	calls := 0

	ix, fromCache, err := c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 1, calls)

	cached, fromCache, err := c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, 1, calls, "build must not run on a cache hit")

	want, err := ix.Query(context.Background(), "Will I have luck?", 1)
	require.NoError(t, err)
	got, err := cached.Query(context.Background(), "Will I have luck?", 1)
	require.NoError(t, err)
	assert.Equal(t, want, got, "reopened index must answer like the original")
}

func TestGetOrBuild_ChangedContentRebuilds(t *testing.T) {
	dir := t.TempDir()
	c, err := New(t.TempDir())
	require.NoError(t, err)

	builder := sparse.NewBuilder(sparse.DefaultMaxFeatures, domain.DefaultRelevanceThreshold)
	calls := 0

	files := []domain.SourceFile{writeFile(t, dir, "doc.txt", "first version")}
	_, _, err = c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
	require.NoError(t, err)

	files = []domain.SourceFile{writeFile(t, dir, "doc.txt", "second version")}
	_, fromCache, err := c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 2, calls)
}

func TestGetOrBuild_ExpiredEntryRebuilds(t *testing.T) {
	dir := t.TempDir()
	files := []domain.SourceFile{writeFile(t, dir, "doc.txt", "horoscope text")}

	cacheDir := t.TempDir()
	c, err := New(cacheDir, WithMaxAge(time.Hour))
	require.NoError(t, err)

	builder := sparse.NewBuilder(sparse.DefaultMaxFeatures, domain.DefaultRelevanceThreshold)
	calls := 0
	_, _, err = c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
	require.NoError(t, err)

	// Age the stored entry past the max age.
	fp, err := c.Fingerprint(files)
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(cacheDir, fp+entryExt), old, old))

	_, fromCache, err := c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 2, calls)
}

func TestGetOrBuild_CorruptEntryRebuilds(t *testing.T) {
	dir := t.TempDir()
	files := []domain.SourceFile{writeFile(t, dir, "doc.txt", "horoscope text")}

	cacheDir := t.TempDir()
	c, err := New(cacheDir)
	require.NoError(t, err)

	fp, err := c.Fingerprint(files)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, fp+entryExt), []byte("not gob"), 0o644))

	builder := sparse.NewBuilder(sparse.DefaultMaxFeatures, domain.DefaultRelevanceThreshold)
	calls := 0
	_, fromCache, err := c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 1, calls)
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	c, err := New(cacheDir, WithMaxAge(time.Hour))
	require.NoError(t, err)

	builder := sparse.NewBuilder(sparse.DefaultMaxFeatures, domain.DefaultRelevanceThreshold)
	calls := 0

	fresh := []domain.SourceFile{writeFile(t, dir, "fresh.txt", "fresh content")}
	stale := []domain.SourceFile{writeFile(t, dir, "stale.txt", "stale content")}
	for _, files := range [][]domain.SourceFile{fresh, stale} {
		_, _, err = c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
		require.NoError(t, err)
	}

	staleFP, err := c.Fingerprint(stale)
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(cacheDir, staleFP+entryExt), old, old))

	require.NoError(t, c.Sweep(context.Background()))

	entries, err := c.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	freshFP, err := c.Fingerprint(fresh)
	require.NoError(t, err)
	assert.Equal(t, freshFP, entries[0].Fingerprint)
	assert.Equal(t, domain.IndexKindSparse, entries[0].Kind)
}

func TestClear_RemovesEverything(t *testing.T) {
	dir := t.TempDir()
	c, err := New(t.TempDir())
	require.NoError(t, err)

	builder := sparse.NewBuilder(sparse.DefaultMaxFeatures, domain.DefaultRelevanceThreshold)
	calls := 0
	files := []domain.SourceFile{writeFile(t, dir, "doc.txt", "some content")}
	_, _, err = c.GetOrBuild(context.Background(), files, builder, buildFunc(builder, &calls))
	require.NoError(t, err)

	require.NoError(t, c.Clear(context.Background()))

	entries, err := c.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
