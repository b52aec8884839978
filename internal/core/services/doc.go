// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate calls to
// driven ports (adapters): extraction, chunking, embedding, indexing,
// retrieval and answer generation.
//
// Services are pure Go with no CGO or external dependencies.
package services
