package mcp

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result domain.QueryResult
	err    error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, _ int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result.Texts(), nil
}

func (m *mockRetrievalService) RetrieveHits(_ context.Context, _ string, _ int) (domain.QueryResult, error) {
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
}

func (m *mockSessionService) Current(_ context.Context) (*domain.Session, error) {
	return m.current, m.err
}

func (m *mockSessionService) Load(_ context.Context, _ string) (*domain.Session, error) {
	return m.current, m.err
}

func (m *mockSessionService) List(_ context.Context) ([]domain.Session, error) {
	return m.sessions, m.err
}

func (m *mockSessionService) Delete(_ context.Context, _ string) error {
	return m.err
}
