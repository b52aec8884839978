package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the retrieval pipeline over HTTP:

  GET  /healthz          liveness check
  POST /v1/documents     multipart document upload -> ingest
  POST /v1/query         {"query", "top_k"} -> ranked hits
  POST /v1/ask           {"question", "top_k"} -> answer + sources

The server keeps the ingested session in memory, so documents uploaded
to it are queryable until it stops.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, else :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ingestService == nil || retrievalService == nil {
		return errors.New("services not configured")
	}

	addr := serveAddr
	if addr == "" {
		addr = appSettings.HTTP.Addr
	}
	if addr == "" {
		addr = ":8080"
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Ingest:    ingestService,
		Retrieval: retrievalService,
		Answer:    answerService,
		Session:   sessionService,
	}, httpapi.WithDefaultTopK(appSettings.Retrieval.TopK))
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
