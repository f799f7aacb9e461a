package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize      = "chunking.size"
	keyChunkOverlap   = "chunking.overlap"
	keyChunkSplitter  = "chunking.splitter"
	keyMinChunkChars  = "chunking.min_chunk_chars"
	keyTopK           = "retrieval.top_k"
	keyThreshold      = "retrieval.threshold"
	keyMaxFileSize    = "limits.max_file_size"
	keyMaxDocChars    = "limits.max_doc_chars"
	keyMaxTotalChunks = "limits.max_total_chunks"
	keyMaxPDFPages    = "limits.max_pdf_pages"
	keyCacheMaxAge    = "cache.max_age"
	keyCacheDir       = "cache.dir"
	keyIndexKind      = "index.kind"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedDims      = "embedding.dimensions"
	keyAnswerProvider = "answer.provider"
	keyAnswerModel    = "answer.model"
	keyAnswerBaseURL  = "answer.base_url"
	keyAnswerAPIKey   = "answer.api_key"
)

// SettingsService reads and writes application settings through the
// config store, falling back to documented defaults for unset keys.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Unset or malformed keys
// take the default value; unknown keys in the store are ignored.
func (s *SettingsService) Get() domain.Settings {
	settings := domain.DefaultSettings()

	settings.ChunkSize = s.getInt(keyChunkSize, settings.ChunkSize)
	settings.ChunkOverlap = s.getInt(keyChunkOverlap, settings.ChunkOverlap)
	settings.MinChunkChars = s.getInt(keyMinChunkChars, settings.MinChunkChars)
	settings.TopK = s.getInt(keyTopK, settings.TopK)
	settings.RelevanceThreshold = s.getFloat(keyThreshold, settings.RelevanceThreshold)
	settings.MaxFileSize = int64(s.getInt(keyMaxFileSize, int(settings.MaxFileSize)))
	settings.MaxDocChars = s.getInt(keyMaxDocChars, settings.MaxDocChars)
	settings.MaxTotalChunks = s.getInt(keyMaxTotalChunks, settings.MaxTotalChunks)
	settings.MaxPDFPages = s.getInt(keyMaxPDFPages, settings.MaxPDFPages)
	settings.CacheDir = s.configStore.GetString(keyCacheDir)

	if splitter := domain.SplitterKind(s.configStore.GetString(keyChunkSplitter)); splitter.IsValid() {
		settings.Splitter = splitter
	}
	if kind := domain.IndexKind(s.configStore.GetString(keyIndexKind)); kind.Valid() {
		settings.IndexKind = kind
	}
	if raw := s.configStore.GetString(keyCacheMaxAge); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			settings.CacheMaxAge = d
		}
	}

	return settings
}

// Embedding retrieves the embedding provider settings.
// Returns nil when no provider is configured.
func (s *SettingsService) Embedding() *domain.EmbeddingSettings {
	provider := domain.AIProvider(s.configStore.GetString(keyEmbedProvider))
	if !provider.IsValid() {
		return nil
	}
	return &domain.EmbeddingSettings{
		Provider:   provider,
		Model:      s.configStore.GetString(keyEmbedModel),
		BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
		APIKey:     s.configStore.GetString(keyEmbedAPIKey),
		Dimensions: s.configStore.GetInt(keyEmbedDims),
	}
}

// Answer retrieves the answer generator settings.
// Returns nil when no provider is configured.
func (s *SettingsService) Answer() *domain.AnswerSettings {
	provider := domain.AIProvider(s.configStore.GetString(keyAnswerProvider))
	if !provider.IsValid() {
		return nil
	}
	return &domain.AnswerSettings{
		Provider: provider,
		Model:    s.configStore.GetString(keyAnswerModel),
		BaseURL:  s.configStore.GetString(keyAnswerBaseURL),
		APIKey:   s.configStore.GetString(keyAnswerAPIKey),
	}
}

// SetIndexKind selects the similarity index implementation.
func (s *SettingsService) SetIndexKind(kind domain.IndexKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown index kind %q", domain.ErrInvalidInput, kind)
	}
	return s.configStore.Set(keyIndexKind, kind.String())
}

// SetEmbeddingProvider configures the embedding service provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", domain.ErrInvalidInput, provider)
	}

	if err := s.configStore.Set(keyEmbedProvider, provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, apiKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	return nil
}

// SetAnswerProvider configures the answer generator provider.
func (s *SettingsService) SetAnswerProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", domain.ErrInvalidInput, provider)
	}

	if err := s.configStore.Set(keyAnswerProvider, provider.String()); err != nil {
		return fmt.Errorf("save answer provider: %w", err)
	}
	if err := s.configStore.Set(keyAnswerModel, model); err != nil {
		return fmt.Errorf("save answer model: %w", err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(keyAnswerAPIKey, apiKey); err != nil {
			return fmt.Errorf("save answer api_key: %w", err)
		}
	}
	return nil
}

// Validate checks that the stored settings are internally consistent.
// The dense index kind needs a configured embedding provider.
func (s *SettingsService) Validate() error {
	settings := s.Get()

	if settings.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	}
	if settings.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if settings.RelevanceThreshold < 0 || settings.RelevanceThreshold > 1 {
		return fmt.Errorf("%w: relevance threshold must be in [0, 1]", domain.ErrInvalidInput)
	}
	if settings.IndexKind == domain.IndexKindDense && !s.Embedding().IsConfigured() {
		return fmt.Errorf("%w: dense index kind requires a configured embedding provider", domain.ErrInvalidInput)
	}
	return nil
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}
