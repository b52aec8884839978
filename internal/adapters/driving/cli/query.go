package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve the chunks nearest to a query",
	Long: `Embeds the query text and scans the active session's index for the
top-k nearest chunks, ascending by distance. When no session is active
the most recently saved one is loaded first.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from settings)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := cmd.Context()
	if err := ensureActiveSession(ctx); err != nil {
		return err
	}

	topK := queryTopK
	if topK <= 0 {
		topK = appSettings.Retrieval.TopK
	}

	result, err := retrievalService.RetrieveHits(ctx, args[0], topK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return printJSON(cmd, hitsJSON(result.Hits))
	}
	return outputHitsTable(cmd, result.Hits)
}

// ensureActiveSession loads the latest saved session when nothing is
// active yet. A fresh process has an empty workspace, so query and ask
// transparently resume the last ingest.
func ensureActiveSession(ctx context.Context) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if _, err := sessionService.Current(ctx); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := sessionService.Load(ctx, ""); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errors.New("no session available, run 'docquery ingest' first")
		}
		return fmt.Errorf("loading latest session: %w", err)
	}
	return nil
}

func outputHitsTable(cmd *cobra.Command, hits []domain.Hit) error {
	if len(hits) == 0 {
		cmd.Println("No results.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, hit := range hits {
		cmd.Printf("  [%d] chunk %d (distance %.4f)\n", i+1, hit.ChunkID, hit.Distance)
		cmd.Printf("      %s\n", snippet(hit.Text, 120))
		cmd.Println()
	}
	return nil
}

// hitsJSON shapes hits for --json output.
func hitsJSON(hits []domain.Hit) any {
	type hitOut struct {
		ChunkID  int     `json:"chunk_id"`
		Distance float64 `json:"distance"`
		Text     string  `json:"text"`
	}
	out := make([]hitOut, len(hits))
	for i, h := range hits {
		out[i] = hitOut{ChunkID: h.ChunkID, Distance: h.Distance, Text: h.Text}
	}
	return out
}

// snippet returns the first line of text, truncated to max runes.
func snippet(text string, max int) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
