package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or API-compatible hosts).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// GenerationSettings holds answer-generation provider configuration.
type GenerationSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or API-compatible hosts).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the generation provider is set up.
func (g GenerationSettings) IsConfigured() bool {
	if !g.Provider.IsValid() {
		return false
	}
	if g.Provider.RequiresAPIKey() && g.APIKey == "" {
		return false
	}
	return true
}

// Chunking defaults.
const (
	// DefaultChunkSize is the stage-1 character budget per segment.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the stage-1 overlap in characters.
	DefaultChunkOverlap = 0

	// DefaultTokenBudget is the stage-2 token ceiling per chunk.
	DefaultTokenBudget = 256
)

// DefaultTopK is the number of results a query returns by default.
const DefaultTopK = 5

// ChunkingSettings holds the two-stage chunker configuration.
type ChunkingSettings struct {
	// ChunkSize is the character budget of a stage-1 segment.
	ChunkSize int

	// ChunkOverlap is how many trailing characters of a segment are
	// prefixed to its successor. Applies to stage 1 only; the token
	// stage always resegments with zero overlap.
	ChunkOverlap int

	// TokenBudget is the maximum token count of a final chunk.
	TokenBudget int
}

// RetrievalSettings holds query-time configuration.
type RetrievalSettings struct {
	// TopK is the default number of results per query.
	TopK int

	// Metric is the index distance metric, fixed at construction.
	Metric Metric
}

// HTTPSettings holds the HTTP API configuration.
type HTTPSettings struct {
	// Addr is the listen address (host:port).
	Addr string
}

// WatchSettings holds the directory watcher configuration.
type WatchSettings struct {
	// Dir is the directory to watch for documents.
	Dir string

	// Debounce is how long to wait after the last write event before
	// ingesting a file.
	Debounce time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Chunking holds the two-stage chunker settings.
	Chunking ChunkingSettings

	// Retrieval holds query-time settings.
	Retrieval RetrievalSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Generation holds generation provider settings.
	Generation GenerationSettings

	// HTTP holds the HTTP API settings.
	HTTP HTTPSettings

	// Watch holds the directory watcher settings.
	Watch WatchSettings
}

// DefaultAppSettings returns settings with pipeline defaults.
// AI providers are left unconfigured; users set them via `docquery config`.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			TokenBudget:  DefaultTokenBudget,
		},
		Retrieval: RetrievalSettings{
			TopK:   DefaultTopK,
			Metric: DefaultMetric,
		},
		Embedding:  EmbeddingSettings{},
		Generation: GenerationSettings{},
		HTTP: HTTPSettings{
			Addr: "127.0.0.1:8642",
		},
		Watch: WatchSettings{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllGenerationProviders returns providers that support answer generation.
func AllGenerationProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultGenerationModels returns default models for each generation provider.
func DefaultGenerationModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
