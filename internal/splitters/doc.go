// Package splitters provides the document chunking strategies.
//
// Two strategies exist behind the Splitter port: recursive structural
// splitting with character overlap, and sentence accumulation without
// overlap. Both are deterministic and lossless over non-whitespace
// input, except that the sentence splitter drops sub-minimum fragments
// as noise.
package splitters
