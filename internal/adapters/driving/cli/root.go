// Package cli implements the docquery command-line interface.
// Commands are thin adapters over the driving ports; all wiring
// happens once in the root command's PersistentPreRunE.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/adapters/driven/ai"
	"github.com/custodia-labs/docquery/internal/chunking"
	"github.com/custodia-labs/docquery/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docquery/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/docquery/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/core/services"
	"github.com/custodia-labs/docquery/internal/extractors"
	"github.com/custodia-labs/docquery/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

// Persistent flags.
var (
	verboseFlag   bool
	configDirFlag string
)

// Services injected into commands. Tests replace these directly.
var (
	configStore       driven.ConfigStore
	appSettings       domain.AppSettings
	extractorRegistry driven.ExtractorRegistry
	embeddingService  driven.EmbeddingService
	generationService driven.GenerationService
	sessionStore      driven.SessionStore
	workspace         *services.Workspace
	ingestService     driving.IngestService
	retrievalService  driving.RetrievalService
	answerService     driving.AnswerService
	sessionService    driving.SessionService
)

// servicesInitialized guards against double wiring; tests set it after
// installing mocks so PersistentPreRunE leaves them alone.
var servicesInitialized bool

var rootCmd = &cobra.Command{
	Use:   "docquery",
	Short: "Ask questions about your documents",
	Long: `docquery ingests a paginated document, splits it into retrievable
chunks, embeds them into a vector index, and answers nearest-neighbour
retrieval queries. With a generation provider configured it also
produces grounded answers to natural-language questions.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.docquery)")
}

// Execute runs the root command. Interrupts cancel the command
// context so long-running servers shut down gracefully.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// initServices wires all adapters and core services from settings.
// AI providers are created without a connectivity check; the first
// real call surfaces unreachable services.
func initServices() error {
	if servicesInitialized {
		return nil
	}

	store, err := file.NewConfigStore(configDirFlag)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	configStore = store
	appSettings = file.LoadSettings(configStore)

	embeddingService, err = ai.CreateEmbeddingService(&appSettings.Embedding)
	if err != nil {
		return err
	}
	generationService, err = ai.CreateGenerationService(&appSettings.Generation)
	if err != nil {
		return err
	}

	sessionStore, err = sqlite.NewStore(dataDir())
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	extractorRegistry = extractors.NewDefaultRegistry()
	workspace = services.NewWorkspace()
	indexer := services.NewIndexer(embeddingService)
	newIndex := func(metric domain.Metric) driven.VectorStore {
		return memory.NewVectorStore(metric)
	}

	var opts []services.IngestorOption
	if ingestSave {
		opts = append(opts, services.WithPersistence(sessionStore))
	}
	ingestService = services.NewIngestor(
		extractorRegistry,
		chunking.FromSettings(appSettings.Chunking),
		indexer,
		workspace,
		newIndex,
		appSettings.Retrieval.Metric,
		opts...,
	)

	retriever := services.NewRetriever(indexer, workspace)
	retrievalService = retriever
	answerService = services.NewAnswerer(retriever, generationService)
	sessionService = services.NewSessions(sessionStore, workspace, newIndex)

	servicesInitialized = true
	return nil
}

// closeServices releases collaborator clients and storage.
func closeServices() {
	if embeddingService != nil {
		embeddingService.Close() //nolint:errcheck
	}
	if generationService != nil {
		generationService.Close() //nolint:errcheck
	}
	if sessionStore != nil {
		sessionStore.Close() //nolint:errcheck
	}
}

// dataDir returns the session database directory. Empty means the
// store's own default (~/.docquery/data); an explicit --config-dir
// keeps everything under one root.
func dataDir() string {
	if configDirFlag == "" {
		return ""
	}
	return filepath.Join(configDirFlag, "data")
}
