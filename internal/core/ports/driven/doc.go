// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - Extractor: Parses a raw document into ordered page texts
//   - ExtractorRegistry: Selects the appropriate extractor
//   - Chunker: Splits document text into the retrievable corpus
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorStore: Holds (id, text, vector) triples and scans them
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - GenerationService: Answers questions over retrieved chunks.
//     Without it, `ask` is disabled; retrieval still works.
//   - SessionStore: Persists sessions across processes. Without it,
//     sessions are memory-only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
