package domain

// FileResult records the outcome of ingesting a single source file.
// A file either produced a document or failed with a recorded error;
// failures never abort the rest of the batch.
type FileResult struct {
	// File is the source file this result refers to.
	File SourceFile

	// Doc is the extracted document. Nil when Err is set.
	Doc *Document

	// Err is the file-level failure (ErrUnsupportedFormat,
	// ErrFileTooLarge or a wrapped ErrExtraction). Nil on success.
	Err error
}

// Ok reports whether the file was ingested successfully.
func (r FileResult) Ok() bool {
	return r.Err == nil
}

// IngestReport aggregates per-file results for one upload batch.
type IngestReport struct {
	// Results holds one entry per submitted file, in submission order.
	Results []FileResult

	// ChunkCount is the number of chunks handed to the index builder.
	ChunkCount int

	// ChunksDropped is the number of chunks discarded by the total
	// chunk cap.
	ChunksDropped int

	// FromCache reports whether the index was served from the cache
	// without rebuilding.
	FromCache bool
}

// Documents returns the successfully extracted documents in order.
func (r *IngestReport) Documents() []Document {
	docs := make([]Document, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Ok() && res.Doc != nil {
			docs = append(docs, *res.Doc)
		}
	}
	return docs
}

// Failed returns the results for files that were skipped or failed.
func (r *IngestReport) Failed() []FileResult {
	var failed []FileResult
	for _, res := range r.Results {
		if !res.Ok() {
			failed = append(failed, res)
		}
	}
	return failed
}
