package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrExtraction indicates a document could not be parsed at all or
	// contained no pages. Fatal to the session; not worth retrying.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbedding indicates the embedding collaborator failed or
	// returned a vector count that does not match the input batch.
	// The whole batch may be retried by the caller.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the generation collaborator failed to
	// produce an answer.
	ErrGeneration = errors.New("generation failed")

	// ErrIndex indicates an index operation failed: invalid query
	// parameters, or an add that was rolled back atomically.
	ErrIndex = errors.New("index operation failed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor claims the input format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Nothing can be ingested or queried without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation service is not
	// configured. Retrieval still works; ask does not.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrRateLimited indicates a collaborator API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
