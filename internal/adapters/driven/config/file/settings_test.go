package file

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

func TestLoadSettings_Defaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings := LoadSettings(store)

	assert.Equal(t, domain.DefaultChunkSize, settings.Chunking.ChunkSize)
	assert.Equal(t, domain.DefaultChunkOverlap, settings.Chunking.ChunkOverlap)
	assert.Equal(t, domain.DefaultTokenBudget, settings.Chunking.TokenBudget)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
	assert.Equal(t, domain.DefaultMetric, settings.Retrieval.Metric)
	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.Generation.IsConfigured())
}

func TestLoadSettings_StoredValues(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyChunkSize, 500))
	require.NoError(t, store.Set(KeyChunkOverlap, 50))
	require.NoError(t, store.Set(KeyTokenBudget, 128))
	require.NoError(t, store.Set(KeyTopK, 3))
	require.NoError(t, store.Set(KeyMetric, "cosine"))
	require.NoError(t, store.Set(KeyEmbeddingProvider, "ollama"))
	require.NoError(t, store.Set(KeyEmbeddingModel, "nomic-embed-text"))
	require.NoError(t, store.Set(KeyWatchDebounceMS, 250))

	settings := LoadSettings(store)

	assert.Equal(t, 500, settings.Chunking.ChunkSize)
	assert.Equal(t, 50, settings.Chunking.ChunkOverlap)
	assert.Equal(t, 128, settings.Chunking.TokenBudget)
	assert.Equal(t, 3, settings.Retrieval.TopK)
	assert.Equal(t, domain.MetricCosine, settings.Retrieval.Metric)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.True(t, settings.Embedding.IsConfigured())
	assert.Equal(t, 250*time.Millisecond, settings.Watch.Debounce)
}

func TestLoadSettings_InvalidMetricFallsBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyMetric, "manhattan"))

	settings := LoadSettings(store)
	assert.Equal(t, domain.DefaultMetric, settings.Retrieval.Metric)
}

func TestLoadSettings_ExplicitZeroOverlap(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyChunkOverlap, 0))

	settings := LoadSettings(store)
	assert.Equal(t, 0, settings.Chunking.ChunkOverlap)
}

func TestLoadSettings_EnvOverridesAPIKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyEmbeddingProvider, "openai"))
	require.NoError(t, store.Set(KeyEmbeddingAPIKey, "stored-key"))
	require.NoError(t, store.Set(KeyGenerationProvider, "anthropic"))

	t.Setenv(EnvOpenAIAPIKey, "env-openai-key")
	t.Setenv(EnvAnthropicAPIKey, "env-anthropic-key")

	settings := LoadSettings(store)

	assert.Equal(t, "env-openai-key", settings.Embedding.APIKey)
	assert.Equal(t, "env-anthropic-key", settings.Generation.APIKey)
}

func TestLoadSettings_EnvIgnoredForOtherProviders(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyEmbeddingProvider, "ollama"))

	t.Setenv(EnvOpenAIAPIKey, "env-openai-key")

	settings := LoadSettings(store)
	assert.Empty(t, settings.Embedding.APIKey)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	settings := domain.DefaultAppSettings()
	settings.Chunking.ChunkSize = 750
	settings.Retrieval.Metric = domain.MetricCosine
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
		BaseURL:  "http://localhost:11434",
	}
	settings.Watch.Debounce = 750 * time.Millisecond

	require.NoError(t, SaveSettings(store, settings))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	loaded := LoadSettings(reopened)

	assert.Equal(t, 750, loaded.Chunking.ChunkSize)
	assert.Equal(t, domain.MetricCosine, loaded.Retrieval.Metric)
	assert.Equal(t, settings.Embedding, loaded.Embedding)
	assert.Equal(t, 750*time.Millisecond, loaded.Watch.Debounce)
}

func TestKnownKeys(t *testing.T) {
	keys := KnownKeys()

	assert.True(t, IsKnownKey(KeyChunkSize))
	assert.True(t, IsKnownKey(KeyGenerationAPIKey))
	assert.False(t, IsKnownKey("nonsense.key"))
	assert.Contains(t, keys, KeyMetric)
	assert.True(t, sort.StringsAreSorted(keys))
}
