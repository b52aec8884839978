package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultTopK is used when a tool call omits top_k.
const defaultTopK = 5

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the query to find relevant document chunks for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Hits  []HitOutput `json:"hits"`
	Count int         `json:"count"`
}

// HitOutput represents a single retrieved chunk.
type HitOutput struct {
	ChunkID  int     `json:"chunk_id"`
	Distance float64 `json:"distance"`
	Text     string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested document"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of context chunks to retrieve (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string      `json:"answer"`
	Model   string      `json:"model"`
	Sources []HitOutput `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
// The ask tool is only present when a generation service is wired.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the document chunks nearest to a query, ascending by distance",
	}, s.handleRetrieve)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question from the ingested document's content",
		}, s.handleAsk)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	result, err := s.ports.Retrieval.RetrieveHits(ctx, input.Query, topK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Hits:  make([]HitOutput, len(result.Hits)),
		Count: result.Len(),
	}
	for i, hit := range result.Hits {
		output.Hits[i] = HitOutput{
			ChunkID:  hit.ChunkID,
			Distance: hit.Distance,
			Text:     hit.Text,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	answer, err := s.ports.Answer.Ask(ctx, input.Question, topK)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Model:   answer.Model,
		Sources: make([]HitOutput, len(answer.Sources)),
	}
	for i, hit := range answer.Sources {
		output.Sources[i] = HitOutput{
			ChunkID:  hit.ChunkID,
			Distance: hit.Distance,
			Text:     hit.Text,
		}
	}

	return nil, output, nil
}
