package mcp

import (
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers nearest-neighbour queries.
	Retrieval driving.RetrievalService

	// Answer generates grounded answers. Optional; without it the ask
	// tool is not registered.
	Answer driving.AnswerService

	// Session exposes the active session's metadata. Optional.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Answer and Session are optional.
	return nil
}
