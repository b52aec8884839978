// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docquery. It lets AI assistants retrieve from, and ask questions
// about, the ingested document.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
