// Package extractors provides text extraction from heterogeneous file
// formats and a registry that selects the extractor for a filename
// extension.
//
// Files with unrecognised extensions are skipped, logged, and excluded
// from the batch; they are never attempted as plain text. This is a
// deliberate single policy: attempting unknown binary formats as text
// pollutes the index with noise.
package extractors
