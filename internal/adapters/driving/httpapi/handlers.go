package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// hitResponse is one ranked result in a query or ask response.
type hitResponse struct {
	ChunkID  int     `json:"chunk_id"`
	Distance float64 `json:"distance"`
	Text     string  `json:"text"`
}

// queryRequest is the body of POST /v1/query.
type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// queryResponse is the body of a successful query.
type queryResponse struct {
	Hits  []hitResponse `json:"hits"`
	Count int           `json:"count"`
}

// askRequest is the body of POST /v1/ask.
type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// askResponse is the body of a successful ask.
type askResponse struct {
	Answer  string        `json:"answer"`
	Model   string        `json:"model"`
	Sources []hitResponse `json:"sources"`
}

// ingestResponse is the body of a successful upload.
type ingestResponse struct {
	SessionID  string `json:"session_id"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Pages      int    `json:"pages"`
	Chunks     int    `json:"chunks"`
	Tokens     int    `json:"tokens"`
	Saved      bool   `json:"saved"`
	ElapsedMS  int64  `json:"elapsed_ms"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload ingests a document from a multipart form. The file part
// must be named "document"; its filename drives format detection.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := r.ParseMultipartForm(s.maxBody); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parsing multipart form: %w", err))
		return
	}

	part, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing 'document' file part"))
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}

	report, err := s.ports.Ingest.IngestBytes(r.Context(), header.Filename, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{
		SessionID:  report.SessionID,
		DocumentID: report.DocumentID,
		Title:      report.Title,
		Pages:      report.Pages,
		Chunks:     report.Chunks,
		Tokens:     report.Tokens,
		Saved:      report.Saved,
		ElapsedMS:  report.Elapsed.Milliseconds(),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, errors.New("'query' is required"))
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}

	result, err := s.ports.Retrieval.RetrieveHits(r.Context(), req.Query, topK)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := queryResponse{
		Hits:  make([]hitResponse, len(result.Hits)),
		Count: result.Len(),
	}
	for i, hit := range result.Hits {
		resp.Hits[i] = hitResponse{ChunkID: hit.ChunkID, Distance: hit.Distance, Text: hit.Text}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.ports.Answer == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no generation provider configured"))
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, errors.New("'question' is required"))
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}

	answer, err := s.ports.Answer.Ask(r.Context(), req.Question, topK)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := askResponse{
		Answer:  answer.Text,
		Model:   answer.Model,
		Sources: make([]hitResponse, len(answer.Sources)),
	}
	for i, hit := range answer.Sources {
		resp.Sources[i] = hitResponse{ChunkID: hit.ChunkID, Distance: hit.Distance, Text: hit.Text}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.ports.Session == nil {
		writeError(w, http.StatusNotFound, errors.New("session surface not available"))
		return
	}

	session, err := s.ports.Session.Current(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":              session.ID,
		"title":           session.Title,
		"uri":             session.URI,
		"pages":           session.Pages,
		"metric":          session.Metric.String(),
		"dimensions":      session.Dimensions,
		"embedding_model": session.EmbeddingModel,
		"created_at":      session.CreatedAt,
	})
}

// writeDomainError maps domain sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrExtraction),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrGenerationUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, domain.ErrEmbedding),
		errors.Is(err, domain.ErrGeneration),
		errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusBadGateway, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
