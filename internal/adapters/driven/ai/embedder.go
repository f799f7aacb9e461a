package ai

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// EmbedderProvider hands out the process-wide embedding service.
// Creating the service is expensive, so it is created lazily exactly
// once and reused for every index build and query until process exit.
// It is never torn down before the process ends.
type EmbedderProvider struct {
	settings *domain.EmbeddingSettings

	once    sync.Once
	service driven.EmbeddingService
	err     error
}

// NewEmbedderProvider creates a provider for the configured embedding
// settings. A nil settings value means no provider is configured and
// Get always fails with domain.ErrEmbeddingService.
func NewEmbedderProvider(settings *domain.EmbeddingSettings) *EmbedderProvider {
	return &EmbedderProvider{settings: settings}
}

// Get returns the shared embedding service, creating and
// ping-validating it on first call. An unreachable service fails here,
// before any index build starts, and the failure is sticky.
// Concurrent callers share the one instance.
func (p *EmbedderProvider) Get() (driven.EmbeddingService, error) {
	p.once.Do(func() {
		if !p.settings.IsConfigured() {
			p.err = fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingService)
			return
		}
		p.service, p.err = CreateAndValidateEmbeddingService(p.settings)
		if p.err != nil {
			return
		}
		logger.Debug("Created %s embedding service (model %s)",
			p.settings.Provider, p.service.ModelName())
	})
	return p.service, p.err
}
