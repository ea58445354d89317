package mocks

import (
	"context"
	"sync"

	"github.com/aura-archive-api/internal/models"
	"github.com/aura-archive-api/internal/service"
)

// MockDraftService is a mock implementation of DraftService for handler tests
type MockDraftService struct {
	Drafts       map[string]*models.Draft
	FeedItems    []models.FeedItem
	CreateError  error
	SaveError    error
	PublishError error
	SaveCalls    int
	PublishCalls int
	NextID       string
}

func NewMockDraftService() *MockDraftService {
	return &MockDraftService{
		Drafts: make(map[string]*models.Draft),
		NextID: "draft-1",
	}
}

func (m *MockDraftService) CreateDraft(ctx context.Context) (*models.Draft, error) {
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	draft := &models.Draft{ID: m.NextID, Status: models.StatusProcessing}
	m.Drafts[draft.ID] = draft
	return draft, nil
}

func (m *MockDraftService) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	draft, ok := m.Drafts[id]
	if !ok {
		return nil, service.ErrDraftNotFound
	}
	return draft, nil
}

func (m *MockDraftService) ListReviewPending(ctx context.Context) ([]*models.Draft, error) {
	drafts := []*models.Draft{}
	for _, d := range m.Drafts {
		if d.Status == models.StatusReviewPending {
			drafts = append(drafts, d)
		}
	}
	return drafts, nil
}

func (m *MockDraftService) Save(ctx context.Context, id string, req *models.SaveRequest) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	draft, ok := m.Drafts[id]
	if !ok {
		return service.ErrDraftNotFound
	}
	draft.Title = req.Title
	draft.Summary = req.Summary
	draft.Content = req.Content
	return nil
}

func (m *MockDraftService) Publish(ctx context.Context, id string) error {
	m.PublishCalls++
	if m.PublishError != nil {
		return m.PublishError
	}
	draft, ok := m.Drafts[id]
	if !ok {
		return service.ErrDraftNotFound
	}
	draft.Status = models.StatusPublished
	return nil
}

func (m *MockDraftService) Feed(ctx context.Context) ([]models.FeedItem, error) {
	return m.FeedItems, nil
}

func (m *MockDraftService) Count(ctx context.Context) (int, error) {
	return len(m.Drafts), nil
}

// MockPipelineService is a mock implementation of PipelineService
type MockPipelineService struct {
	mu       sync.Mutex
	Enqueued []string
	Paths    []string
}

func (m *MockPipelineService) Enqueue(draftID, mediaPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enqueued = append(m.Enqueued, draftID)
	m.Paths = append(m.Paths, mediaPath)
}

func (m *MockPipelineService) Stop() {}
