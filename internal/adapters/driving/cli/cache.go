package cli

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/services"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the index cache",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries, err := indexCache.Entries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("Cache is empty.")
			return nil
		}
		for _, e := range entries {
			status := "valid"
			if e.Expired {
				status = "expired"
			}
			cmd.Printf("%s  %-6s  %8d bytes  %s  %s\n",
				e.Fingerprint[:12], e.Kind, e.Size,
				e.ModTime.Format("2006-01-02 15:04:05"), status)
		}
		return nil
	},
}

var cacheSweepEvery time.Duration

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired cache entries",
	Long: `Sweep removes cache entries older than the configured maximum age.
With --every it keeps running, sweeping on the given interval until
interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := indexCache.Sweep(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Expired entries removed.")
		if cacheSweepEvery <= 0 {
			return nil
		}

		sweeper := services.NewSweeper(indexCache, cacheSweepEvery)
		sweeper.Start(cmd.Context())
		defer sweeper.Stop()

		cmd.Printf("Sweeping every %s. Press Ctrl+C to stop.\n", cacheSweepEvery)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)
		select {
		case <-sig:
		case <-cmd.Context().Done():
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := indexCache.Clear(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheSweepCmd.Flags().DurationVar(&cacheSweepEvery, "every", 0,
		"keep sweeping on this interval until interrupted")
	cacheCmd.AddCommand(cacheLsCmd, cacheSweepCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
