package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// uriScheme is the custom URI scheme for docquery resources.
const uriScheme = "docquery://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "Summary of the active document session",
		MIMEType:    "application/json",
	}, s.handleSessionResource)
}

// sessionInfo is the JSON shape of the session resource.
type sessionInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	URI            string `json:"uri"`
	Pages          int    `json:"pages"`
	Metric         string `json:"metric"`
	Dimensions     int    `json:"dimensions"`
	EmbeddingModel string `json:"embedding_model"`
	CreatedAt      string `json:"created_at"`
}

// handleSessionResource returns the active session's metadata, or an
// empty object when nothing has been ingested yet.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text := "{}"

	if s.ports.Session != nil {
		session, err := s.ports.Session.Current(ctx)
		switch {
		case err == nil:
			info := sessionInfo{
				ID:             session.ID,
				Title:          session.Title,
				URI:            session.URI,
				Pages:          session.Pages,
				Metric:         session.Metric.String(),
				Dimensions:     session.Dimensions,
				EmbeddingModel: session.EmbeddingModel,
				CreatedAt:      session.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
			data, err := json.Marshal(info)
			if err != nil {
				return nil, fmt.Errorf("marshalling session: %w", err)
			}
			text = string(data)
		case errors.Is(err, domain.ErrNotFound):
			// No active session; serve the empty object.
		default:
			return nil, fmt.Errorf("reading session: %w", err)
		}
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}
