package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest documents dropped into it",
	Long: `Watches a directory for new or changed documents and ingests each
one as it settles. Every ingest replaces the active session, so the
most recently dropped document is the one queries run against.

The directory argument overrides the 'watch.dir' setting. Dotfiles and
unsupported extensions are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := appSettings.Watch.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no directory given and 'watch.dir' is unset")
	}

	watcher := watch.New(ingestService, watch.WithDebounce(appSettings.Watch.Debounce))
	cmd.Printf("Watching %s for documents...\n", dir)
	return watcher.Run(cmd.Context(), dir)
}
