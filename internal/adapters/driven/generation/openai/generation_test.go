package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

func chatHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}
}

func TestNewGenerationService(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewGenerationService(Config{})
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		svc, err := NewGenerationService(Config{APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
	})

	t.Run("custom model", func(t *testing.T) {
		svc, err := NewGenerationService(Config{APIKey: "test-key", Model: "gpt-4o"})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", svc.ModelName())
	})
}

func TestAnswer(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		chatHandler(t, "  Paris is the capital.  ")(w, r)
	}))
	defer server.Close()

	svc, err := NewGenerationService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	answer, err := svc.Answer(context.Background(), "What is the capital of France?", []string{
		"France is a country in Europe.",
		"The capital of France is Paris.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital.", answer)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Contains(t, captured.Messages[1].Content, "[1] France is a country in Europe.")
	assert.Contains(t, captured.Messages[1].Content, "[2] The capital of France is Paris.")
	assert.Contains(t, captured.Messages[1].Content, "Question: What is the capital of France?")
	assert.Equal(t, defaultMaxTokens, captured.MaxTokens)
}

func TestAnswer_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc, err := NewGenerationService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "question", []string{"context"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestAnswer_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model not found", "type": "invalid_request_error"},
		})
	}))
	defer server.Close()

	svc, err := NewGenerationService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "question", []string{"context"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "model not found")
}

func TestAnswer_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	svc, err := NewGenerationService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "question", []string{"context"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestPing(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		svc, err := NewGenerationService(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)
		assert.NoError(t, svc.Ping(context.Background()))
	})

	t.Run("unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		svc, err := NewGenerationService(Config{APIKey: "bad-key", BaseURL: server.URL})
		require.NoError(t, err)
		assert.Error(t, svc.Ping(context.Background()))
	})
}
