package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("test_key", "test_value")
	require.NoError(t, err)

	val, ok := store.Get("test_key")
	assert.True(t, ok)
	assert.Equal(t, "test_value", val)
}

func TestConfigStore_GetString(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("string_key", "hello world")
	require.NoError(t, err)

	assert.Equal(t, "hello world", store.GetString("string_key"))

	// Non-existent key
	assert.Equal(t, "", store.GetString("nonexistent"))

	// Wrong type
	err = store.Set("int_key", 42)
	require.NoError(t, err)
	assert.Equal(t, "", store.GetString("int_key"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("int_key", 42)
	require.NoError(t, err)

	assert.Equal(t, 42, store.GetInt("int_key"))
	assert.Equal(t, 0, store.GetInt("nonexistent"))

	// Wrong type
	err = store.Set("string_key", "not an int")
	require.NoError(t, err)
	assert.Equal(t, 0, store.GetInt("string_key"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("bool_key", true)
	require.NoError(t, err)

	assert.True(t, store.GetBool("bool_key"))
	assert.False(t, store.GetBool("nonexistent"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("chunking.chunk_size", 500))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", reopened.GetString("embedding.provider"))
	assert.Equal(t, 500, reopened.GetInt("chunking.chunk_size"))
}

func TestConfigStore_LoadFlattensNestedSections(t *testing.T) {
	tmpDir := t.TempDir()

	// Hand-written nested TOML must surface as dot-notation keys.
	content := "[embedding]\nprovider = \"openai\"\nmodel = \"text-embedding-3-small\"\n\n[chunking]\nchunk_size = 800\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("embedding.provider"))
	assert.Equal(t, "text-embedding-3-small", store.GetString("embedding.model"))
	assert.Equal(t, 800, store.GetInt("chunking.chunk_size"))
}

func TestConfigStore_LoadEmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(""), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"top": "level",
		"section": map[string]any{
			"key": int64(1),
			"sub": map[string]any{
				"deep": true,
			},
		},
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, "level", flat["top"])
	assert.Equal(t, int64(1), flat["section.key"])
	assert.Equal(t, true, flat["section.sub.deep"])
	_, hasNested := flat["section"]
	assert.False(t, hasNested)
}
