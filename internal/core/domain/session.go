package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session describes one document-processing session: a single document
// extracted, chunked, embedded and held in one in-memory index. The
// corpus and index live for the session; persisting them across
// processes is the session store's concern.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// DocumentID is the ingested document's id.
	DocumentID string

	// URI is the document's original location.
	URI string

	// Title is the document title.
	Title string

	// Pages is the retained page count.
	Pages int

	// Metric is the index distance metric, fixed for the session.
	Metric Metric

	// Dimensions is the embedding vector size, fixed for the session.
	Dimensions int

	// EmbeddingModel is the model that produced the vectors. Vectors
	// from different models are not comparable, so a loaded session
	// must be queried with the same model.
	EmbeddingModel string

	// CreatedAt is when the session was created.
	CreatedAt time.Time
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// SessionSnapshot is the persistable state of a session: metadata plus
// the corpus and its vectors, index-aligned (Vectors[i] belongs to
// Chunks[i]).
type SessionSnapshot struct {
	// Session is the session metadata.
	Session Session

	// Chunks is the corpus in insertion order.
	Chunks Corpus

	// Vectors holds one embedding per chunk, same order.
	Vectors [][]float32
}

// IngestReport summarises one completed ingest.
type IngestReport struct {
	// SessionID identifies the session the ingest created.
	SessionID string

	// DocumentID identifies the extracted document.
	DocumentID string

	// Title is the document title.
	Title string

	// Pages is the retained page count.
	Pages int

	// Chunks is the corpus size.
	Chunks int

	// Tokens is the summed token length of all chunks.
	Tokens int

	// Saved is true when the session was persisted.
	Saved bool

	// Elapsed is the wall-clock ingest duration.
	Elapsed time.Duration
}

// Answer is the generation collaborator's response to a question,
// together with the retrieved chunks it was grounded on.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the retrieval hits handed to the generator,
	// ascending by distance.
	Sources []Hit

	// Model is the generation model name.
	Model string
}
