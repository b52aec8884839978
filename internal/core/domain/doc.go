// Package domain defines the core business entities for docquery.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types of the retrieval pipeline:
//
//   - Document: An extracted paginated document
//   - Chunk: A retrievable unit of document text
//   - Corpus: The ordered chunk sequence produced from one document
//   - QueryResult: Ranked nearest-neighbour hits for one query
//   - Session: Metadata for one document-processing session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid
//   - Cannot Import: Any internal/ package, any other external dependency
package domain
