package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/aura-archive-api/internal/models"
)

// MockDraftRepository is a mock implementation of DraftRepository
type MockDraftRepository struct {
	mu          sync.Mutex
	Drafts      map[string]*models.Draft
	UpsertError error
	UpdateError error
	UpdateCalls int
}

func NewMockDraftRepository() *MockDraftRepository {
	return &MockDraftRepository{
		Drafts: make(map[string]*models.Draft),
	}
}

func (m *MockDraftRepository) Upsert(ctx context.Context, draft *models.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertError != nil {
		return m.UpsertError
	}
	copied := *draft
	m.Drafts[draft.ID] = &copied
	return nil
}

func (m *MockDraftRepository) UpdateFields(ctx context.Context, id string, fields *models.DraftFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	draft, ok := m.Drafts[id]
	if !ok {
		return sql.ErrNoRows
	}
	if fields.Status != nil {
		draft.Status = *fields.Status
	}
	if fields.Title != nil {
		draft.Title = *fields.Title
	}
	if fields.Summary != nil {
		draft.Summary = *fields.Summary
	}
	if fields.Content != nil {
		draft.Content = *fields.Content
	}
	if fields.ImageURL != nil {
		draft.ImageURL = *fields.ImageURL
	}
	if fields.ExternalLinks != nil {
		draft.ExternalLinks = fields.ExternalLinks
	}
	if fields.Degraded != nil {
		draft.Degraded = *fields.Degraded
	}
	if fields.Error != nil {
		draft.Error = *fields.Error
	}
	return nil
}

func (m *MockDraftRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft, ok := m.Drafts[id]
	if !ok {
		return nil, nil
	}
	copied := *draft
	return &copied, nil
}

func (m *MockDraftRepository) ListByStatus(ctx context.Context, status models.DraftStatus, limit int) ([]*models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drafts := []*models.Draft{}
	for _, d := range m.Drafts {
		if d.Status == status && len(drafts) < limit {
			copied := *d
			drafts = append(drafts, &copied)
		}
	}
	return drafts, nil
}

func (m *MockDraftRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Drafts), nil
}
