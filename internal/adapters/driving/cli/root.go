// Package cli implements the cobra command-line interface. It is the
// driving adapter wiring the config store, extractors, splitters,
// index builders and AI services into the core services.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/docqa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa-cli/internal/cache"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/services"
	"github.com/custodia-labs/docqa-cli/internal/extractors"
	"github.com/custodia-labs/docqa-cli/internal/extractors/docx"
	"github.com/custodia-labs/docqa-cli/internal/extractors/pdf"
	"github.com/custodia-labs/docqa-cli/internal/extractors/plaintext"
	"github.com/custodia-labs/docqa-cli/internal/index/dense"
	"github.com/custodia-labs/docqa-cli/internal/index/sparse"
	"github.com/custodia-labs/docqa-cli/internal/logger"
	"github.com/custodia-labs/docqa-cli/internal/splitters"
)

var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// Shared wiring, set up by initServices before any command runs.
var (
	configStore   driven.ConfigStore
	settingsSvc   *services.SettingsService
	promptStore   driven.PromptStore
	indexCache    *cache.Cache
	embedProvider *ai.EmbedderProvider
	appSettings   domain.Settings
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa ingests text, PDF and Word documents, indexes them for
similarity retrieval and answers questions grounded on the retrieved
passages. Built indexes are cached by content fingerprint, so repeated
runs over unchanged files skip re-indexing.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command with the build version.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.docqa)")
}

// initServices builds the shared wiring from the config store.
// The version command works without any of it.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Name() == "version" {
		return nil
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	configStore = store
	settingsSvc = services.NewSettingsService(configStore)
	appSettings = settingsSvc.Get()

	baseDir := filepath.Dir(store.Path())
	prompts, err := configfile.NewPromptStore(filepath.Join(baseDir, "prompts"))
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}
	promptStore = prompts

	cacheDir := appSettings.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(baseDir, "cache")
	}
	indexCache, err = cache.New(cacheDir, cache.WithMaxAge(appSettings.CacheMaxAge))
	if err != nil {
		return fmt.Errorf("open index cache: %w", err)
	}

	embedProvider = ai.NewEmbedderProvider(settingsSvc.Embedding())
	return nil
}

// newExtractorRegistry registers the built-in extractors.
func newExtractorRegistry() driven.ExtractorRegistry {
	return extractors.NewRegistry(
		plaintext.New(),
		pdf.New(pdf.WithMaxPages(appSettings.MaxPDFPages)),
		docx.New(),
	)
}

// newIndexBuilder creates the builder for the configured index kind.
// The dense kind needs the shared embedding service.
func newIndexBuilder() (driven.IndexBuilder, error) {
	switch appSettings.IndexKind {
	case domain.IndexKindDense:
		embedder, err := embedProvider.Get()
		if err != nil {
			return nil, err
		}
		return dense.NewBuilder(embedder), nil
	default:
		return sparse.NewBuilder(sparse.DefaultMaxFeatures, appSettings.RelevanceThreshold), nil
	}
}

// newIngestService wires the full ingestion pipeline.
func newIngestService() (*services.IngestService, error) {
	splitter, err := splitters.ForKind(appSettings)
	if err != nil {
		return nil, err
	}
	builder, err := newIndexBuilder()
	if err != nil {
		return nil, err
	}
	return services.NewIngestService(
		newExtractorRegistry(),
		splitter,
		builder,
		indexCache,
		services.NewPool(services.DefaultPoolWorkers),
		appSettings,
	), nil
}
