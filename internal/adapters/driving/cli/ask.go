package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

var (
	askTopK    int
	askJSON    bool
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested document",
	Long: `Retrieves the chunks nearest to the question and hands them to the
configured generation provider, which answers from that context only.
Requires a generation provider; run 'docquery config' to set one up.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of context chunks (default from settings)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "show the retrieved context chunks")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := cmd.Context()
	if err := ensureActiveSession(ctx); err != nil {
		return err
	}

	topK := askTopK
	if topK <= 0 {
		topK = appSettings.Retrieval.TopK
	}

	answer, err := answerService.Ask(ctx, args[0], topK)
	if err != nil {
		if errors.Is(err, domain.ErrGenerationUnavailable) {
			return errors.New("no generation provider configured, run 'docquery config set generation.provider <ollama|openai|anthropic>'")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, answerJSON(answer))
	}

	cmd.Println(answer.Text)
	if askSources {
		cmd.Println()
		cmd.Printf("Sources (%s):\n", answer.Model)
		for i, hit := range answer.Sources {
			cmd.Printf("  [%d] chunk %d (distance %.4f) %s\n", i+1, hit.ChunkID, hit.Distance, snippet(hit.Text, 80))
		}
	}
	return nil
}

// answerJSON shapes an answer for --json output.
func answerJSON(a *domain.Answer) any {
	return struct {
		Answer  string `json:"answer"`
		Model   string `json:"model"`
		Sources any    `json:"sources"`
	}{
		Answer:  a.Text,
		Model:   a.Model,
		Sources: hitsJSON(a.Sources),
	}
}
