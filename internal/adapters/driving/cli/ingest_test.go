package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file]", ingestCmd.Use)
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_HasSaveFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("save")
	require.NotNil(t, flag, "save flag should exist")
	assert.Equal(t, "true", flag.DefValue)
}

func TestIngestCmd_PrintsReport(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "/tmp/test.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Test Document")
	assert.Contains(t, buf.String(), "Chunks:   3")
}

func TestIngestCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--json", "/tmp/test.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"session_id": "sess-test"`)
	assert.Contains(t, buf.String(), `"chunks": 3`)
}

func TestIngestCmd_ExtractionFailureIsNotRetried(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockIngestService{
		err: fmt.Errorf("%w: not a supported format", domain.ErrExtraction),
	}
	ingestService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "/tmp/broken.bin"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Equal(t, 1, mock.calls, "deterministic failures must not be retried")
}

func TestRetryableIngest(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"embedding failure retries", fmt.Errorf("%w: timeout", domain.ErrEmbedding), true},
		{"rate limit retries", fmt.Errorf("%w: 429", domain.ErrRateLimited), true},
		{"extraction failure does not", fmt.Errorf("%w: bad pdf", domain.ErrExtraction), false},
		{"index failure does not", fmt.Errorf("%w: bad add", domain.ErrIndex), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryableIngest(tt.err))
		})
	}
}
