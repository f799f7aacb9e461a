package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/services"
)

var (
	askSampleFallback bool
	askShowContext    bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question> <files...>",
	Short: "Ask a question about your documents",
	Long: `Ask ingests the given files (served from the index cache when the
contents are unchanged), retrieves the chunks most similar to the
question and generates an answer grounded on them.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askSampleFallback, "sample-fallback", false,
		"fall back to the built-in sample documents when no file yields any text")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false,
		"print the retrieved context chunks with their scores")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question, paths := args[0], args[1:]

	answerSettings := settingsSvc.Answer()
	if err := ai.ValidateAnswerConfig(answerSettings); err != nil {
		return fmt.Errorf("answer provider configuration: %w", err)
	}
	answerer, err := ai.CreateAnswerService(answerSettings)
	if err != nil {
		return fmt.Errorf("create answer service: %w", err)
	}
	if answerer == nil {
		return fmt.Errorf("no answer provider configured; run 'docqa config set answer.provider ollama'")
	}
	defer answerer.Close()
	if ps, ok := answerer.(interface {
		SetPromptStore(driven.PromptStore)
	}); ok {
		ps.SetPromptStore(promptStore)
	}

	ingestSvc, err := newIngestService()
	if err != nil {
		return err
	}
	ix, report, err := buildIndex(cmd.Context(), ingestSvc, paths, askSampleFallback)
	if err != nil {
		return err
	}
	if verbose {
		printReport(cmd, report)
	}

	askSvc := services.NewAskService(answerer, promptStore, appSettings.TopK)
	answer, err := askSvc.Ask(cmd.Context(), ix, question)
	if err != nil {
		return err
	}

	if askShowContext {
		for i, c := range answer.Contexts {
			cmd.Printf("[%d] %.3f  %s\n", i+1, c.Score, c.Chunk.Content)
		}
		if len(answer.Contexts) > 0 {
			cmd.Println()
		}
	}
	cmd.Println(answer.Text)
	return nil
}
