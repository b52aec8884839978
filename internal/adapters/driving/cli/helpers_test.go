package cli

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report   *domain.IngestReport
	err      error
	lastPath string
	calls    int
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*domain.IngestReport, error) {
	m.lastPath = path
	m.calls++
	return m.report, m.err
}

func (m *mockIngestService) IngestBytes(_ context.Context, name string, _ []byte) (*domain.IngestReport, error) {
	m.lastPath = name
	m.calls++
	return m.report, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result   domain.QueryResult
	err      error
	lastTopK int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, topK int) ([]string, error) {
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.result.Texts(), nil
}

func (m *mockRetrievalService) RetrieveHits(_ context.Context, _ string, topK int) (domain.QueryResult, error) {
	m.lastTopK = topK
	return m.result, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAnswerService) Ask(_ context.Context, _ string, _ int) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	current  *domain.Session
	sessions []domain.Session
	err      error
	loadedID string
	deleted  []string
}

func (m *mockSessionService) Current(_ context.Context) (*domain.Session, error) {
	return m.current, m.err
}

func (m *mockSessionService) Load(_ context.Context, id string) (*domain.Session, error) {
	m.loadedID = id
	return m.current, m.err
}

func (m *mockSessionService) List(_ context.Context) ([]domain.Session, error) {
	return m.sessions, m.err
}

func (m *mockSessionService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

// mockConfigStore is an in-memory implementation of driven.ConfigStore.
type mockConfigStore struct {
	data map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.data[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/docquery-test/config.toml"
}

// setupTestServices installs mock services and prevents the root
// command from wiring real adapters. The returned cleanup restores the
// previous state.
func setupTestServices() func() {
	prevInitialized := servicesInitialized

	session := &domain.Session{
		ID:     "sess-test",
		Title:  "Test Document",
		URI:    "/tmp/test.txt",
		Pages:  1,
		Metric: domain.DefaultMetric,
	}

	configStore = newMockConfigStore()
	appSettings = domain.DefaultAppSettings()
	ingestService = &mockIngestService{report: &domain.IngestReport{SessionID: "sess-test", Title: "Test Document", Pages: 1, Chunks: 3, Tokens: 120}}
	retrievalService = &mockRetrievalService{
		result: domain.QueryResult{
			Hits: []domain.Hit{
				{ChunkID: 0, Text: "chunk text", Distance: 0.1},
			},
		},
	}
	answerService = &mockAnswerService{answer: &domain.Answer{Text: "mock answer", Model: "test-model"}}
	sessionService = &mockSessionService{current: session}
	servicesInitialized = true

	return func() {
		configStore = nil
		ingestService = nil
		retrievalService = nil
		answerService = nil
		sessionService = nil
		servicesInitialized = prevInitialized
	}
}
