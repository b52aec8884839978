package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docquery/internal/adapters/driven/ai"
	"github.com/custodia-labs/docquery/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docquery/internal/core/domain"
)

// configPrompt makes `config set` read the value from a masked prompt
// instead of the command line, keeping secrets out of shell history.
var configPrompt bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change docquery configuration: chunking parameters,
retrieval defaults and AI provider credentials.

Keys use dot notation, e.g. 'chunking.chunk_size' or
'embedding.provider'. Run 'docquery config list' to see them all.`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configuration values",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

API keys can be entered without echo:
  docquery config set embedding.api_key --prompt

Provider changes are validated by pinging the service; a failed ping is
a warning, not an error, so offline configuration still works.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configSetCmd.Flags().BoolVar(&configPrompt, "prompt", false, "read the value from a masked prompt")

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Configuration (%s)\n\n", configStore.Path())
	for _, key := range file.KnownKeys() {
		value, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-26s (default)\n", key)
			continue
		}
		cmd.Printf("  %-26s %v\n", key, displayValue(key, value))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if !file.IsKnownKey(key) {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	value, ok := configStore.Get(key)
	if !ok {
		cmd.Printf("%s is unset (default applies)\n", key)
		return nil
	}
	cmd.Printf("%v\n", displayValue(key, value))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if !file.IsKnownKey(key) {
		return fmt.Errorf("unknown configuration key %q (see 'docquery config list')", key)
	}

	var raw string
	switch {
	case configPrompt:
		cmd.Printf("Value for %s: ", key)
		raw = readSecret()
		cmd.Println()
	case len(args) == 2:
		raw = args[1]
	default:
		return errors.New("provide a value or use --prompt")
	}

	value, err := coerceValue(key, raw)
	if err != nil {
		return err
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	cmd.Printf("%s set.\n", key)

	validateProviderChange(cmd, key)
	return nil
}

// coerceValue converts the raw string into the key's native type and
// rejects values the pipeline could not run with.
func coerceValue(key, raw string) (any, error) {
	switch key {
	case file.KeyChunkSize, file.KeyTokenBudget, file.KeyTopK:
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return n, nil

	case file.KeyChunkOverlap, file.KeyWatchDebounceMS:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer", key)
		}
		return n, nil

	case file.KeyMetric:
		if !domain.Metric(raw).IsValid() {
			return nil, fmt.Errorf("%s must be %q or %q", key, domain.MetricEuclidean, domain.MetricCosine)
		}
		return raw, nil

	case file.KeyEmbeddingProvider, file.KeyGenerationProvider:
		if !domain.AIProvider(raw).IsValid() {
			return nil, fmt.Errorf("%s must be one of: ollama, openai, anthropic", key)
		}
		return raw, nil

	default:
		return raw, nil
	}
}

// validateProviderChange pings the affected provider after a change to
// its settings. Failures warn rather than fail so credentials can be
// staged before the service is reachable.
func validateProviderChange(cmd *cobra.Command, key string) {
	settings := file.LoadSettings(configStore)

	switch {
	case strings.HasPrefix(key, "embedding."):
		if err := ai.ValidateEmbeddingConfig(&settings.Embedding); err != nil {
			cmd.PrintErrf("Warning: embedding provider validation failed: %v\n", err)
		}
	case strings.HasPrefix(key, "generation."):
		if err := ai.ValidateGenerationConfig(&settings.Generation); err != nil {
			cmd.PrintErrf("Warning: generation provider validation failed: %v\n", err)
		}
	}
}

// displayValue masks secrets in listings.
func displayValue(key string, value any) any {
	if strings.HasSuffix(key, ".api_key") {
		if s, ok := value.(string); ok {
			return maskAPIKey(s)
		}
	}
	return value
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// readSecret reads a line from stdin without echo where possible.
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if secret, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
