package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// truncationMarker is appended to document text cut at the character
// ceiling so the truncation is visible in retrieved context.
const truncationMarker = "... [truncated]"

// IngestService turns uploaded files into a queryable index.
// Extraction runs on the shared worker pool; file-level failures are
// recorded per file and never abort the batch.
type IngestService struct {
	registry driven.ExtractorRegistry
	splitter driven.Splitter
	builder  driven.IndexBuilder
	cache    driven.IndexCache
	pool     *Pool
	settings domain.Settings
}

// NewIngestService creates an ingest service. The cache may be nil, in
// which case every ingest rebuilds the index.
func NewIngestService(
	registry driven.ExtractorRegistry,
	splitter driven.Splitter,
	builder driven.IndexBuilder,
	cache driven.IndexCache,
	pool *Pool,
	settings domain.Settings,
) *IngestService {
	if pool == nil {
		pool = NewPool(DefaultPoolWorkers)
	}
	return &IngestService{
		registry: registry,
		splitter: splitter,
		builder:  builder,
		cache:    cache,
		pool:     pool,
		settings: settings,
	}
}

// Ingest extracts, chunks and indexes the files at the given paths.
// Returns domain.ErrEmptyInput when no file survives screening or no
// chunks survive splitting.
func (s *IngestService) Ingest(ctx context.Context, paths []string) (driven.Index, *domain.IngestReport, error) {
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: no files to ingest", domain.ErrEmptyInput)
	}

	report := &domain.IngestReport{}
	var usable []domain.SourceFile
	for _, path := range paths {
		file, err := s.screen(path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			report.Results = append(report.Results, domain.FileResult{File: file, Err: err})
			continue
		}
		report.Results = append(report.Results, domain.FileResult{File: file})
		usable = append(usable, file)
	}

	if len(usable) == 0 {
		return nil, report, fmt.Errorf("%w: no usable files in batch", domain.ErrEmptyInput)
	}

	build := func(ctx context.Context) (driven.Index, error) {
		docs := s.extractAll(ctx, usable, report)
		if len(docs) == 0 {
			return nil, fmt.Errorf("%w: extraction produced no documents", domain.ErrEmptyInput)
		}
		chunks, dropped, err := s.splitAll(ctx, docs)
		if err != nil {
			return nil, err
		}
		report.ChunkCount = len(chunks)
		report.ChunksDropped = dropped
		return s.builder.Build(ctx, chunks)
	}

	if s.cache == nil {
		ix, err := build(ctx)
		return ix, report, err
	}

	ix, fromCache, err := s.cache.GetOrBuild(ctx, usable, s.builder, build)
	if err != nil {
		return nil, report, err
	}
	report.FromCache = fromCache
	if fromCache {
		report.ChunkCount = len(ix.Chunks())
	}
	return ix, report, nil
}

// IngestDocuments indexes pre-extracted documents, bypassing file
// screening and the cache. Used for the built-in sample corpus.
func (s *IngestService) IngestDocuments(ctx context.Context, docs []domain.Document) (driven.Index, *domain.IngestReport, error) {
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("%w: no documents to ingest", domain.ErrEmptyInput)
	}

	report := &domain.IngestReport{}
	prepared := make([]domain.Document, len(docs))
	for i, doc := range docs {
		prepared[i] = s.truncate(doc)
		report.Results = append(report.Results, domain.FileResult{
			File: domain.SourceFile{Path: doc.Path},
			Doc:  &prepared[i],
		})
	}

	chunks, dropped, err := s.splitAll(ctx, prepared)
	if err != nil {
		return nil, report, err
	}
	report.ChunkCount = len(chunks)
	report.ChunksDropped = dropped

	ix, err := s.builder.Build(ctx, chunks)
	if err != nil {
		return nil, report, err
	}
	return ix, report, nil
}

// screen validates a path before extraction: the file must exist, fit
// the size ceiling and have a registered extractor. Unsupported
// extensions are never attempted as plain text.
func (s *IngestService) screen(path string) (domain.SourceFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	file := domain.SourceFile{Path: path, Ext: ext}

	info, err := os.Stat(path)
	if err != nil {
		return file, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if info.IsDir() {
		return file, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	file.Size = info.Size()

	if file.Size > s.settings.MaxFileSize {
		return file, fmt.Errorf("%w: %d bytes exceeds limit of %d",
			domain.ErrFileTooLarge, file.Size, s.settings.MaxFileSize)
	}
	if _, err := s.registry.ForExtension(ext); err != nil {
		return file, err
	}
	return file, nil
}

// extractAll runs extraction for the usable files on the worker pool
// and records per-file outcomes in the report.
func (s *IngestService) extractAll(ctx context.Context, files []domain.SourceFile, report *domain.IngestReport) []domain.Document {
	type outcome struct {
		doc *domain.Document
		err error
	}

	var mu sync.Mutex
	outcomes := make(map[string]outcome, len(files))

	tasks := make([]func(), len(files))
	for i, file := range files {
		file := file
		tasks[i] = func() {
			doc, err := s.extract(ctx, file)
			mu.Lock()
			outcomes[file.Path] = outcome{doc: doc, err: err}
			mu.Unlock()
		}
	}
	s.pool.Run(tasks)

	var docs []domain.Document
	for i := range report.Results {
		res := &report.Results[i]
		if res.Err != nil {
			continue
		}
		out, ok := outcomes[res.File.Path]
		if !ok {
			continue
		}
		if out.err != nil {
			logger.Warn("Extraction failed for %s: %v", res.File.Path, out.err)
			res.Err = out.err
			continue
		}
		res.Doc = out.doc
		docs = append(docs, *out.doc)
	}
	return docs
}

// extract runs the registered extractor and applies the character
// ceiling.
func (s *IngestService) extract(ctx context.Context, file domain.SourceFile) (*domain.Document, error) {
	extractor, err := s.registry.ForExtension(file.Ext)
	if err != nil {
		return nil, err
	}

	doc, err := extractor.Extract(ctx, file.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, file.Path, err)
	}

	truncated := s.truncate(*doc)
	if truncated.Truncated {
		logger.Debug("Truncated %s at %d characters", file.Path, s.settings.MaxDocChars)
	}
	return &truncated, nil
}

// truncate applies the per-document character ceiling.
func (s *IngestService) truncate(doc domain.Document) domain.Document {
	if s.settings.MaxDocChars <= 0 || len(doc.Content) <= s.settings.MaxDocChars {
		return doc
	}
	// Cut on a rune boundary so the truncated text stays valid UTF-8.
	cut := s.settings.MaxDocChars
	for cut > 0 && !utf8.RuneStart(doc.Content[cut]) {
		cut--
	}
	doc.Content = doc.Content[:cut] + truncationMarker
	doc.Truncated = true
	return doc
}

// splitAll chunks every document in order and applies the total chunk
// cap.
func (s *IngestService) splitAll(ctx context.Context, docs []domain.Document) ([]domain.Chunk, int, error) {
	var chunks []domain.Chunk
	for i := range docs {
		dc, err := s.splitter.Split(ctx, &docs[i])
		if err != nil {
			return nil, 0, fmt.Errorf("split %s: %w", docs[i].Path, err)
		}
		chunks = append(chunks, dc...)
	}

	dropped := 0
	if max := s.settings.MaxTotalChunks; max > 0 && len(chunks) > max {
		dropped = len(chunks) - max
		chunks = chunks[:max]
		logger.Warn("Chunk cap reached: dropped %d of %d chunks", dropped, dropped+max)
	}
	return chunks, dropped, nil
}
