package file

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

// Configuration keys. The TOML file nests them as sections
// ([chunking], [embedding], ...) which the store flattens to these
// dot-notation keys.
const (
	KeyChunkSize    = "chunking.chunk_size"
	KeyChunkOverlap = "chunking.chunk_overlap"
	KeyTokenBudget  = "chunking.token_budget"

	KeyTopK   = "retrieval.top_k"
	KeyMetric = "retrieval.metric"

	KeyEmbeddingProvider = "embedding.provider"
	KeyEmbeddingModel    = "embedding.model"
	KeyEmbeddingBaseURL  = "embedding.base_url"
	KeyEmbeddingAPIKey   = "embedding.api_key"

	KeyGenerationProvider = "generation.provider"
	KeyGenerationModel    = "generation.model"
	KeyGenerationBaseURL  = "generation.base_url"
	KeyGenerationAPIKey   = "generation.api_key"

	KeyHTTPAddr = "http.addr"

	KeyWatchDir        = "watch.dir"
	KeyWatchDebounceMS = "watch.debounce_ms"
)

// Environment variables that override stored API keys. Useful in CI
// and for keeping secrets out of the config file.
const (
	EnvOpenAIAPIKey    = "DOCQUERY_OPENAI_API_KEY"
	EnvAnthropicAPIKey = "DOCQUERY_ANTHROPIC_API_KEY"
)

// KnownKeys returns all recognised configuration keys, sorted.
func KnownKeys() []string {
	keys := []string{
		KeyChunkSize, KeyChunkOverlap, KeyTokenBudget,
		KeyTopK, KeyMetric,
		KeyEmbeddingProvider, KeyEmbeddingModel, KeyEmbeddingBaseURL, KeyEmbeddingAPIKey,
		KeyGenerationProvider, KeyGenerationModel, KeyGenerationBaseURL, KeyGenerationAPIKey,
		KeyHTTPAddr,
		KeyWatchDir, KeyWatchDebounceMS,
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a recognised configuration key.
func IsKnownKey(key string) bool {
	for _, k := range KnownKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// LoadSettings builds application settings from the store. Unset keys
// fall back to pipeline defaults; API keys may be overridden by
// environment variables.
func LoadSettings(store driven.ConfigStore) domain.AppSettings {
	settings := domain.DefaultAppSettings()

	if v := store.GetInt(KeyChunkSize); v > 0 {
		settings.Chunking.ChunkSize = v
	}
	if v, ok := store.Get(KeyChunkOverlap); ok {
		if overlap := toInt(v); overlap >= 0 {
			settings.Chunking.ChunkOverlap = overlap
		}
	}
	if v := store.GetInt(KeyTokenBudget); v > 0 {
		settings.Chunking.TokenBudget = v
	}

	if v := store.GetInt(KeyTopK); v > 0 {
		settings.Retrieval.TopK = v
	}
	if m := domain.Metric(store.GetString(KeyMetric)); m.IsValid() {
		settings.Retrieval.Metric = m
	}

	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProvider(store.GetString(KeyEmbeddingProvider)),
		Model:    store.GetString(KeyEmbeddingModel),
		BaseURL:  store.GetString(KeyEmbeddingBaseURL),
		APIKey:   store.GetString(KeyEmbeddingAPIKey),
	}
	settings.Generation = domain.GenerationSettings{
		Provider: domain.AIProvider(store.GetString(KeyGenerationProvider)),
		Model:    store.GetString(KeyGenerationModel),
		BaseURL:  store.GetString(KeyGenerationBaseURL),
		APIKey:   store.GetString(KeyGenerationAPIKey),
	}
	applyEnvOverrides(&settings)

	if v := store.GetString(KeyHTTPAddr); v != "" {
		settings.HTTP.Addr = v
	}

	if v := store.GetString(KeyWatchDir); v != "" {
		settings.Watch.Dir = v
	}
	if v := store.GetInt(KeyWatchDebounceMS); v > 0 {
		settings.Watch.Debounce = time.Duration(v) * time.Millisecond
	}

	return settings
}

// SaveSettings writes every settings field to the store and persists.
// API keys sourced from the environment are written as stored; callers
// that want env-only keys should blank them first.
func SaveSettings(store driven.ConfigStore, settings domain.AppSettings) error {
	values := map[string]any{
		KeyChunkSize:    settings.Chunking.ChunkSize,
		KeyChunkOverlap: settings.Chunking.ChunkOverlap,
		KeyTokenBudget:  settings.Chunking.TokenBudget,

		KeyTopK:   settings.Retrieval.TopK,
		KeyMetric: settings.Retrieval.Metric.String(),

		KeyEmbeddingProvider: settings.Embedding.Provider.String(),
		KeyEmbeddingModel:    settings.Embedding.Model,
		KeyEmbeddingBaseURL:  settings.Embedding.BaseURL,
		KeyEmbeddingAPIKey:   settings.Embedding.APIKey,

		KeyGenerationProvider: settings.Generation.Provider.String(),
		KeyGenerationModel:    settings.Generation.Model,
		KeyGenerationBaseURL:  settings.Generation.BaseURL,
		KeyGenerationAPIKey:   settings.Generation.APIKey,

		KeyHTTPAddr: settings.HTTP.Addr,

		KeyWatchDir:        settings.Watch.Dir,
		KeyWatchDebounceMS: int(settings.Watch.Debounce / time.Millisecond),
	}

	for key, value := range values {
		if err := store.Set(key, value); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return store.Save()
}

// applyEnvOverrides replaces API keys with environment values when set.
// The environment wins over the file so rotated keys take effect
// without editing config.
func applyEnvOverrides(settings *domain.AppSettings) {
	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		if settings.Embedding.Provider == domain.AIProviderOpenAI {
			settings.Embedding.APIKey = key
		}
		if settings.Generation.Provider == domain.AIProviderOpenAI {
			settings.Generation.APIKey = key
		}
	}
	if key := os.Getenv(EnvAnthropicAPIKey); key != "" {
		if settings.Generation.Provider == domain.AIProviderAnthropic {
			settings.Generation.APIKey = key
		}
	}
}

// toInt coerces TOML numeric representations to int, returning -1 for
// non-numeric values.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return -1
	}
}
