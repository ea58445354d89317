package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/aura-archive-api/internal/generation"
)

// MockGenerationClient is a scripted mock of the generation service client
type MockGenerationClient struct {
	mu sync.Mutex

	SubmitHandle string
	SubmitError  error
	SubmitCalls  int

	// PollStates is consumed one state per PollStatus call; the last
	// state repeats once the script runs out
	PollStates []generation.MediaState
	PollError  error
	PollCalls  int

	CompleteText  string
	CompleteError error
	CompleteCalls int
	// CompleteFunc, when set, overrides the fixed text/error pair
	CompleteFunc func(attempt int) (string, error)
}

func NewMockGenerationClient() *MockGenerationClient {
	return &MockGenerationClient{
		SubmitHandle: "handle-1",
		PollStates:   []generation.MediaState{generation.MediaReady},
	}
}

func (m *MockGenerationClient) Submit(ctx context.Context, media io.Reader, filename, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitCalls++
	if m.SubmitError != nil {
		return "", m.SubmitError
	}
	return m.SubmitHandle, nil
}

func (m *MockGenerationClient) PollStatus(ctx context.Context, handle string) (generation.MediaState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PollError != nil {
		return generation.MediaProcessing, m.PollError
	}
	idx := m.PollCalls
	m.PollCalls++
	if idx >= len(m.PollStates) {
		idx = len(m.PollStates) - 1
	}
	return m.PollStates[idx], nil
}

func (m *MockGenerationClient) Complete(ctx context.Context, handle string, instructions string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(m.CompleteCalls)
	}
	if m.CompleteError != nil {
		return "", m.CompleteError
	}
	return m.CompleteText, nil
}

// MockCoverService is a mock cover image service
type MockCoverService struct {
	URL   string
	Err   error
	Calls int
	Hints []string
}

func (m *MockCoverService) CoverImage(ctx context.Context, hint string) (string, error) {
	m.Calls++
	m.Hints = append(m.Hints, hint)
	if m.Err != nil {
		return "", m.Err
	}
	return m.URL, nil
}

// MockPipelineRunner is a mock of the orchestrator for service tests
type MockPipelineRunner struct {
	Result *generation.Result
	Err    error
	Calls  int
	Paths  []string
}

func (m *MockPipelineRunner) Run(ctx context.Context, mediaPath string) (*generation.Result, error) {
	m.Calls++
	m.Paths = append(m.Paths, mediaPath)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
