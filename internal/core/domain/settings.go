package domain

import "time"

// Default ingestion and retrieval limits.
const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is the overlap between adjacent chunks in
	// characters (structural splitting only).
	DefaultChunkOverlap = 50

	// DefaultTopK is the number of context chunks retrieved per query.
	DefaultTopK = 3

	// DefaultRelevanceThreshold is the minimum similarity for a sparse
	// match to count as usable context.
	DefaultRelevanceThreshold = 0.1

	// DefaultMaxFileSize is the per-file size ceiling in bytes.
	DefaultMaxFileSize = 5 * 1024 * 1024

	// DefaultMaxDocChars is the character ceiling per extracted document.
	DefaultMaxDocChars = 10000

	// DefaultMaxTotalChunks caps the chunk collection handed to the
	// index builder.
	DefaultMaxTotalChunks = 200

	// DefaultMinChunkChars is the minimum chunk length for sentence
	// splitting; shorter fragments are dropped as noise.
	DefaultMinChunkChars = 20

	// DefaultMaxPDFPages caps the number of PDF pages extracted.
	DefaultMaxPDFPages = 20

	// DefaultCacheMaxAge is how long a cached index stays valid.
	DefaultCacheMaxAge = 2 * time.Hour
)

// SplitterKind selects the chunking strategy.
type SplitterKind string

const (
	// SplitterRecursive splits on paragraph, line, space then character
	// boundaries, with overlap between adjacent chunks.
	SplitterRecursive SplitterKind = "recursive"

	// SplitterSentence accumulates whole sentences per chunk, no overlap.
	SplitterSentence SplitterKind = "sentence"
)

// IsValid returns true if the splitter kind is recognised.
func (k SplitterKind) IsValid() bool {
	return k == SplitterRecursive || k == SplitterSentence
}

// String returns the string representation.
func (k SplitterKind) String() string {
	return string(k)
}

// AIProvider identifies a service provider for embeddings or answering.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Settings holds the recognised configuration options and their effects.
type Settings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between adjacent chunks in characters.
	// Only the recursive splitter uses it.
	ChunkOverlap int

	// Splitter selects the chunking strategy.
	Splitter SplitterKind

	// TopK is the number of context chunks retrieved per query.
	TopK int

	// RelevanceThreshold is the minimum similarity to keep a sparse match.
	RelevanceThreshold float64

	// MaxFileSize is the per-file size ceiling in bytes.
	MaxFileSize int64

	// MaxDocChars is the character ceiling per extracted document.
	MaxDocChars int

	// MaxTotalChunks caps the chunk collection handed to the builder.
	MaxTotalChunks int

	// MinChunkChars is the noise floor for sentence-mode chunks.
	MinChunkChars int

	// MaxPDFPages caps the number of PDF pages extracted per document.
	MaxPDFPages int

	// CacheMaxAge is how long a cached index stays valid.
	CacheMaxAge time.Duration

	// CacheDir is the directory holding serialized indexes.
	CacheDir string

	// IndexKind selects the similarity index implementation.
	IndexKind IndexKind
}

// DefaultSettings returns settings populated with the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:          DefaultChunkSize,
		ChunkOverlap:       DefaultChunkOverlap,
		Splitter:           SplitterRecursive,
		TopK:               DefaultTopK,
		RelevanceThreshold: DefaultRelevanceThreshold,
		MaxFileSize:        DefaultMaxFileSize,
		MaxDocChars:        DefaultMaxDocChars,
		MaxTotalChunks:     DefaultMaxTotalChunks,
		MinChunkChars:      DefaultMinChunkChars,
		MaxPDFPages:        DefaultMaxPDFPages,
		CacheMaxAge:        DefaultCacheMaxAge,
		IndexKind:          IndexKindSparse,
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the provider endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// Dimensions is the embedding vector size, model-dependent.
	Dimensions int
}

// IsConfigured returns true if the settings name a usable provider.
func (s *EmbeddingSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// AnswerSettings holds answer generator configuration.
type AnswerSettings struct {
	// Provider is the LLM provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the provider endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string
}

// IsConfigured returns true if the settings name a usable provider.
func (s *AnswerSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}
