package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, ok := configStore.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q is not set", args[0])
		}
		cmd.Printf("%v\n", value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set stores a configuration value. Keys with constrained values
(index.kind, embedding.provider, answer.provider) are validated before
the write; a write that leaves the settings internally inconsistent
succeeds with a warning.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setConfigValue(args[0], args[1]); err != nil {
			return err
		}
		cmd.Printf("%s = %s\n", args[0], args[1])
		if err := settingsSvc.Validate(); err != nil {
			cmd.PrintErrf("warning: %v\n", err)
		}
		return nil
	},
}

// setConfigValue routes constrained keys through the validated settings
// setters; everything else is written through as-is.
func setConfigValue(key, raw string) error {
	switch key {
	case "index.kind":
		return settingsSvc.SetIndexKind(domain.IndexKind(raw))
	case "embedding.provider":
		return settingsSvc.SetEmbeddingProvider(domain.AIProvider(raw),
			configStore.GetString("embedding.model"),
			configStore.GetString("embedding.api_key"))
	case "answer.provider":
		return settingsSvc.SetAnswerProvider(domain.AIProvider(raw),
			configStore.GetString("answer.model"),
			configStore.GetString("answer.api_key"))
	default:
		return configStore.Set(key, parseValue(raw))
	}
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.Println(configStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// parseValue interprets the raw argument as a bool, int or float before
// falling back to a plain string.
func parseValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
