// Package cache persists built similarity indexes on disk, keyed by a
// content fingerprint of their source files. A repeated ingest of
// identical content reopens the stored index instead of re-extracting
// and re-embedding everything. Entries expire after a configurable age
// and a store failure never fails the ingest that triggered it.
package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.IndexCache = (*Cache)(nil)

const entryExt = ".idx"

// envelope wraps a serialized index payload with the metadata needed
// to decide whether it can be reopened.
type envelope struct {
	Kind    domain.IndexKind
	Payload []byte
}

// Cache is a file-backed index cache. Each entry is a single file
// named <fingerprint>.idx in the cache directory; entry age is the
// file's modification time.
type Cache struct {
	dir    string
	maxAge time.Duration
}

// Option configures the cache.
type Option func(*Cache)

// WithMaxAge overrides how long entries stay valid.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// New creates a file-backed cache rooted at dir, creating the
// directory if needed.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: cache directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create cache dir: %v", domain.ErrCacheIO, err)
	}
	c := &Cache{dir: dir, maxAge: domain.DefaultCacheMaxAge}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// GetOrBuild returns the cached index for the file set when a fresh
// entry of the builder's kind exists, reopening it through the
// builder. Otherwise it calls build, stores the result, and returns
// it. The boolean reports whether the index came from the cache.
func (c *Cache) GetOrBuild(ctx context.Context, files []domain.SourceFile, builder driven.IndexBuilder, build driven.BuildIndexFunc) (driven.Index, bool, error) {
	fp, err := c.Fingerprint(files)
	if err != nil {
		return nil, false, err
	}

	if ix, ok := c.open(fp, builder); ok {
		logger.Debug("Index cache hit for fingerprint %s", fp[:12])
		return ix, true, nil
	}

	ix, err := build(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := c.store(fp, ix); err != nil {
		logger.Warn("Failed to cache index: %v", err)
	}
	return ix, false, nil
}

// open tries to reopen the entry for fp. Any failure counts as a
// miss: a stale, mismatched or corrupt entry just forces a rebuild.
func (c *Cache) open(fp string, builder driven.IndexBuilder) (driven.Index, bool) {
	path := c.entryPath(fp)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.maxAge {
		logger.Debug("Index cache entry %s expired", fp[:12])
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read cache entry %s: %v", fp[:12], err)
		return nil, false
	}

	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		logger.Warn("Discarding corrupt cache entry %s: %v", fp[:12], err)
		return nil, false
	}
	if env.Kind != builder.Kind() {
		logger.Debug("Cache entry %s is %s, want %s", fp[:12], env.Kind, builder.Kind())
		return nil, false
	}

	ix, err := builder.Open(bytes.NewReader(env.Payload))
	if err != nil {
		logger.Warn("Failed to reopen cache entry %s: %v", fp[:12], err)
		return nil, false
	}
	return ix, true
}

// store writes the entry atomically via a temp file rename.
func (c *Cache) store(fp string, ix driven.Index) error {
	var payload bytes.Buffer
	if err := ix.Encode(&payload); err != nil {
		return fmt.Errorf("%w: encode index: %v", domain.ErrCacheIO, err)
	}

	var buf bytes.Buffer
	env := envelope{Kind: ix.Kind(), Payload: payload.Bytes()}
	if err := gob.NewEncoder(&buf).Encode(&env); err != nil {
		return fmt.Errorf("%w: encode cache entry: %v", domain.ErrCacheIO, err)
	}

	tmp, err := os.CreateTemp(c.dir, fp+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheIO, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrCacheIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheIO, err)
	}
	if err := os.Rename(tmp.Name(), c.entryPath(fp)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheIO, err)
	}
	return nil
}

// Sweep removes entries older than the configured max age. A failure
// on one entry is logged and the sweep continues.
func (c *Cache) Sweep(_ context.Context) error {
	entries, err := c.list()
	if err != nil {
		return err
	}
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) <= c.maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			logger.Warn("Failed to remove expired cache entry %s: %v", e.Name(), err)
			continue
		}
		removed++
	}
	logger.Debug("Cache sweep removed %d expired entries", removed)
	return nil
}

// Clear removes all cache entries.
func (c *Cache) Clear(_ context.Context) error {
	entries, err := c.list()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCacheIO, err)
		}
	}
	return nil
}

// Entry describes one cache entry for listing.
type Entry struct {
	Fingerprint string
	Kind        domain.IndexKind
	Size        int64
	ModTime     time.Time
	Expired     bool
}

// Entries returns the current cache entries, oldest first.
func (c *Cache) Entries() ([]Entry, error) {
	dirents, err := c.list()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(dirents))
	for _, e := range dirents {
		info, err := e.Info()
		if err != nil {
			continue
		}
		entry := Entry{
			Fingerprint: strings.TrimSuffix(e.Name(), entryExt),
			Size:        info.Size(),
			ModTime:     info.ModTime(),
			Expired:     time.Since(info.ModTime()) > c.maxAge,
		}
		if data, err := os.ReadFile(filepath.Join(c.dir, e.Name())); err == nil {
			var env envelope
			if gob.NewDecoder(bytes.NewReader(data)).Decode(&env) == nil {
				entry.Kind = env.Kind
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.Before(out[j].ModTime) })
	return out, nil
}

func (c *Cache) list() ([]os.DirEntry, error) {
	dirents, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read cache dir: %v", domain.ErrCacheIO, err)
	}
	out := dirents[:0]
	for _, e := range dirents {
		if !e.IsDir() && strings.HasSuffix(e.Name(), entryExt) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *Cache) entryPath(fp string) string {
	return filepath.Join(c.dir, fp+entryExt)
}
