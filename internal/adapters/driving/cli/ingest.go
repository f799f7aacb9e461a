package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/services"
)

var ingestSampleFallback bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "Extract, chunk and index documents",
	Long: `Ingest extracts text from the given files, splits it into chunks and
builds a similarity index. The index is cached under a fingerprint of
the file contents, so ingesting the same unchanged files again is a
no-op.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestSampleFallback, "sample-fallback", false,
		"index the built-in sample documents when no file yields any text")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	svc, err := newIngestService()
	if err != nil {
		return err
	}

	ix, report, err := buildIndex(cmd.Context(), svc, args, ingestSampleFallback)
	if err != nil {
		return err
	}

	printReport(cmd, report)
	cmd.Printf("Indexed %d chunks (%s index)\n", report.ChunkCount, ix.Kind())
	if report.FromCache {
		cmd.Println("Served from cache.")
	}
	return nil
}

// buildIndex runs the ingestion pipeline, falling back to the built-in
// sample documents when nothing usable was extracted and the fallback
// was requested.
func buildIndex(ctx context.Context, svc *services.IngestService, paths []string, sampleFallback bool) (driven.Index, *domain.IngestReport, error) {
	ix, report, err := svc.Ingest(ctx, paths)
	if err == nil {
		return ix, report, nil
	}
	if errors.Is(err, domain.ErrEmptyInput) && sampleFallback {
		return svc.IngestDocuments(ctx, domain.SampleDocuments())
	}
	return nil, report, err
}

func printReport(cmd *cobra.Command, report *domain.IngestReport) {
	if report == nil {
		return
	}
	for _, r := range report.Results {
		if r.Ok() {
			cmd.Printf("  ok    %s\n", r.File.Path)
		} else {
			cmd.Printf("  skip  %s: %v\n", r.File.Path, r.Err)
		}
	}
	if report.ChunksDropped > 0 {
		cmd.Printf("Dropped %d chunks over the total chunk cap.\n", report.ChunksDropped)
	}
}
