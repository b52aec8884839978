package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMetric_IsValid tests valid and invalid metrics.
func TestMetric_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		metric   Metric
		expected bool
	}{
		{
			name:     "euclidean is valid",
			metric:   MetricEuclidean,
			expected: true,
		},
		{
			name:     "cosine is valid",
			metric:   MetricCosine,
			expected: true,
		},
		{
			name:     "empty string is invalid",
			metric:   Metric(""),
			expected: false,
		},
		{
			name:     "unknown metric is invalid",
			metric:   Metric("manhattan"),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.metric.IsValid())
		})
	}
}

func TestMetric_Description(t *testing.T) {
	assert.Contains(t, MetricEuclidean.Description(), "Euclidean")
	assert.Contains(t, MetricCosine.Description(), "Cosine")
	assert.Equal(t, "Unknown", Metric("chebyshev").Description())
}

func TestDefaultMetric_IsValid(t *testing.T) {
	assert.True(t, DefaultMetric.IsValid())
}

// TestQueryResult_Texts projects hits to texts in rank order.
func TestQueryResult_Texts(t *testing.T) {
	result := QueryResult{
		Hits: []Hit{
			{ChunkID: 2, Text: "closest", Distance: 0.1},
			{ChunkID: 0, Text: "closer", Distance: 0.4},
			{ChunkID: 1, Text: "close", Distance: 0.9},
		},
	}

	assert.Equal(t, []string{"closest", "closer", "close"}, result.Texts())
	assert.Equal(t, 3, result.Len())
}

func TestQueryResult_Empty(t *testing.T) {
	var result QueryResult

	assert.Equal(t, 0, result.Len())
	assert.Empty(t, result.Texts())
}
