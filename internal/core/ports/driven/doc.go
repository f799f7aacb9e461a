// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Converts a source file into plain text
//   - Splitter: Splits document text into bounded chunks
//   - IndexBuilder: Builds a queryable similarity index from chunks
//   - Index: Answers similarity queries over a chunk collection
//   - IndexCache: Persists built indexes keyed by content fingerprint
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates embedding vectors. Required only for
//     the dense index kind.
//   - AnswerService: Generates answers from retrieved context. Without
//     it, queries return the raw context chunks.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or splitter package
package driven
