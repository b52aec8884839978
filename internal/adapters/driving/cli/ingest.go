package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

var (
	ingestSave bool
	ingestJSON bool
)

// Failed embed batches commit nothing, so re-running the whole ingest
// is safe. Bounded attempts with a doubling delay.
const (
	ingestAttempts     = 3
	ingestInitialDelay = time.Second
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into a new session",
	Long: `Extracts text from a paginated document (PDF, Markdown or plain
text), splits it into chunks, embeds them and builds the session's
vector index. A successful ingest replaces the active session.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestSave, "save", true, "persist the session for later loading")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	ctx := cmd.Context()

	var report *domain.IngestReport
	var err error
	delay := ingestInitialDelay
	for attempt := 1; attempt <= ingestAttempts; attempt++ {
		report, err = ingestService.IngestFile(ctx, path)
		if err == nil || !retryableIngest(err) {
			break
		}
		if attempt < ingestAttempts {
			cmd.PrintErrf("Embedding failed (attempt %d/%d), retrying in %s...\n", attempt, ingestAttempts, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, ingestReportJSON(report))
	}

	cmd.Printf("Ingested %q\n", report.Title)
	cmd.Printf("  Session:  %s\n", report.SessionID)
	cmd.Printf("  Pages:    %d\n", report.Pages)
	cmd.Printf("  Chunks:   %d (%d tokens)\n", report.Chunks, report.Tokens)
	cmd.Printf("  Elapsed:  %s\n", report.Elapsed.Round(time.Millisecond))
	if report.Saved {
		cmd.Println("  Saved:    yes")
	}
	return nil
}

// retryableIngest reports whether the failure is a transient
// collaborator problem worth a whole-batch retry. Extraction and
// chunking failures are deterministic and never retried.
func retryableIngest(err error) bool {
	return errors.Is(err, domain.ErrEmbedding) || errors.Is(err, domain.ErrRateLimited)
}

// ingestReportJSON shapes the report for --json output.
func ingestReportJSON(r *domain.IngestReport) any {
	return struct {
		SessionID  string `json:"session_id"`
		DocumentID string `json:"document_id"`
		Title      string `json:"title"`
		Pages      int    `json:"pages"`
		Chunks     int    `json:"chunks"`
		Tokens     int    `json:"tokens"`
		Saved      bool   `json:"saved"`
		ElapsedMS  int64  `json:"elapsed_ms"`
	}{
		SessionID:  r.SessionID,
		DocumentID: r.DocumentID,
		Title:      r.Title,
		Pages:      r.Pages,
		Chunks:     r.Chunks,
		Tokens:     r.Tokens,
		Saved:      r.Saved,
		ElapsedMS:  r.Elapsed.Milliseconds(),
	}
}

// printJSON marshals v with indentation and prints it.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
