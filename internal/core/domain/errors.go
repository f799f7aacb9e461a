package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// File-level ingestion errors. These are recorded per file in the
	// ingest report and never abort the batch.

	// ErrUnsupportedFormat indicates the file extension is not recognised.
	// Policy: the file is skipped and logged, the batch continues.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge indicates the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrExtraction indicates text extraction failed for one file.
	ErrExtraction = errors.New("extraction failed")

	// Index-level errors. These propagate to the caller as a hard
	// failure of the whole upload.

	// ErrEmptyInput indicates no chunks survived ingestion.
	// The caller decides whether to substitute a fallback document set.
	ErrEmptyInput = errors.New("no chunks to index")

	// ErrEmbeddingService indicates the embedding service failed or is
	// unreachable. Dense index builds surface this without falling back
	// to sparse mode.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrCacheIO indicates an index cache read or write failed.
	// Never fatal: ingestion degrades to building without caching.
	ErrCacheIO = errors.New("index cache I/O failed")

	// ErrAnswerUnsupported indicates the answer provider does not support
	// the chat-style call. It is the declared failure kind that triggers
	// the single-prompt fallback path.
	ErrAnswerUnsupported = errors.New("chat-style answering unsupported")
)
