// Package ai provides factory functions for creating AI service
// adapters from stored settings, and the shared embedding handle.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/docqa-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docqa-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/docqa-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docqa-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates an embedding service from settings.
// Returns nil (no error) when no provider is configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", settings.Provider)
	}
}

// CreateAnswerService creates an answer service from settings.
// Returns nil (no error) when no provider is configured.
func CreateAnswerService(settings *domain.AnswerSettings) (driven.AnswerService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewAnswerService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return openaillm.NewAnswerService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	default:
		return nil, fmt.Errorf("unknown answer provider: %s", settings.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity. Returns nil when no provider is configured.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %v. Run 'docqa config set embedding.provider ...' to fix",
			domain.ErrEmbeddingService, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%v)", domain.ErrEmbeddingService, err)
	}
	return svc, nil
}

// ValidateAnswerConfig validates an answer generator configuration by
// creating a service and checking the model name resolves.
func ValidateAnswerConfig(settings *domain.AnswerSettings) error {
	svc, err := CreateAnswerService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()
	if svc.ModelName() == "" {
		return fmt.Errorf("answer model is not set")
	}
	return nil
}
