package domain

// Metric identifies the distance function of a vector index.
// It is fixed when the index is constructed and never changes for the
// life of the index, since it changes ranking.
type Metric string

// Available distance metrics.
const (
	// MetricEuclidean is straight-line (L2) distance.
	MetricEuclidean Metric = "euclidean"

	// MetricCosine is cosine distance (1 - cosine similarity).
	MetricCosine Metric = "cosine"
)

// IsValid returns true if the metric is recognised.
func (m Metric) IsValid() bool {
	switch m {
	case MetricEuclidean, MetricCosine:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m Metric) String() string {
	return string(m)
}

// Description returns a human-readable description of the metric.
func (m Metric) Description() string {
	switch m {
	case MetricEuclidean:
		return "Euclidean (L2 distance)"
	case MetricCosine:
		return "Cosine (1 - cosine similarity)"
	default:
		return "Unknown"
	}
}

// DefaultMetric is used when no metric is configured.
const DefaultMetric = MetricEuclidean

// Hit is one ranked retrieval result.
type Hit struct {
	// ChunkID identifies the retrieved chunk.
	ChunkID int

	// Text is the chunk content.
	Text string

	// Distance is the query-to-chunk distance under the index metric.
	// Smaller is closer.
	Distance float64
}

// QueryResult is the ordered outcome of one nearest-neighbour query:
// ascending by distance, ties broken by lower chunk id, length at most
// the requested top_k. It is constructed fresh per query and never
// persisted.
type QueryResult struct {
	// Hits are the ranked results.
	Hits []Hit
}

// Texts projects the result to chunk texts, preserving rank order.
// This is the sequence the generation collaborator consumes.
func (r QueryResult) Texts() []string {
	texts := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		texts[i] = h.Text
	}
	return texts
}

// Len returns the number of hits.
func (r QueryResult) Len() int {
	return len(r.Hits)
}
