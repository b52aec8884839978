package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved sessions",
	Long:  `List, inspect, load or delete persisted document sessions.`,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	RunE:  runSessionList,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active session",
	RunE:  runSessionShow,
}

var sessionLoadCmd = &cobra.Command{
	Use:   "load [session-id]",
	Short: "Load a saved session",
	Long: `Rehydrates a saved session into the in-memory index without
re-embedding. Without an id the most recent session is loaded. A loaded
session must be queried with the embedding model that built it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionLoad,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionLoadCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessions, err := sessionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		cmd.Println("No saved sessions.")
		return nil
	}

	for i := range sessions {
		s := &sessions[i]
		cmd.Printf("%s  %s  %q (%d pages)\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Title, s.Pages)
	}
	return nil
}

func runSessionShow(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := sessionService.Current(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No active session.")
			return nil
		}
		return err
	}

	printSession(cmd, session)
	return nil
}

func runSessionLoad(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	session, err := sessionService.Load(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errors.New("no saved session found, run 'docquery ingest' first")
		}
		return fmt.Errorf("loading session: %w", err)
	}

	cmd.Println("Session loaded.")
	printSession(cmd, session)
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	cmd.Printf("Session %s deleted.\n", args[0])
	return nil
}

func printSession(cmd *cobra.Command, s *domain.Session) {
	cmd.Printf("  ID:       %s\n", s.ID)
	cmd.Printf("  Title:    %q\n", s.Title)
	cmd.Printf("  URI:      %s\n", s.URI)
	cmd.Printf("  Pages:    %d\n", s.Pages)
	cmd.Printf("  Metric:   %s\n", s.Metric)
	cmd.Printf("  Model:    %s (%d dimensions)\n", s.EmbeddingModel, s.Dimensions)
	cmd.Printf("  Created:  %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
}
