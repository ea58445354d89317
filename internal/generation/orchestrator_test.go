package generation_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aura-archive-api/internal/config"
	"github.com/aura-archive-api/internal/generation"
	"github.com/aura-archive-api/internal/mocks"
	"github.com/rs/zerolog"
)

const placeholderURL = "https://placehold.co/600x400?text=Cover"

func testGenConfig() *config.GenerationConfig {
	return &config.GenerationConfig{
		Model:        "test-model",
		MaxAttempts:  3,
		BackoffBase:  time.Millisecond,
		PollInterval: time.Millisecond,
		PollTimeout:  time.Second,
	}
}

func writeTempMedia(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.mp3")
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validCompletion = `{"title":"Team Sync","summary":"Weekly recap.","blog_markdown":"# Team Sync\n\nNotes.","image_prompt":"calendar on a desk","external_links":[]}`

func TestRunSuccess(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.CompleteText = validCompletion
	covers := &mocks.MockCoverService{URL: "https://imgs.example.com/auraarchive/c.png"}

	o := generation.NewOrchestrator(client, covers, testGenConfig(), placeholderURL, zerolog.Nop())
	result, err := o.Run(context.Background(), writeTempMedia(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Record.Title != "Team Sync" {
		t.Errorf("Title = %q", result.Record.Title)
	}
	if result.Record.CoverImageURL != covers.URL {
		t.Errorf("CoverImageURL = %q", result.Record.CoverImageURL)
	}
	if result.Degraded {
		t.Error("Degraded should be false for a clean run")
	}
	if covers.Calls != 1 {
		t.Errorf("cover service called %d times", covers.Calls)
	}
	if len(covers.Hints) != 1 || covers.Hints[0] != "calendar on a desk" {
		t.Errorf("cover hints = %v", covers.Hints)
	}
}

func TestRunMediaNotFound(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	o := generation.NewOrchestrator(client, nil, testGenConfig(), placeholderURL, zerolog.Nop())

	_, err := o.Run(context.Background(), "/nonexistent/audio.mp3")
	if !errors.Is(err, generation.ErrMediaNotFound) {
		t.Fatalf("Run() error = %v, want ErrMediaNotFound", err)
	}
	if client.SubmitCalls != 0 {
		t.Errorf("Submit called %d times for missing media", client.SubmitCalls)
	}
}

func TestRunUpstreamRejection(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.PollStates = []generation.MediaState{
		generation.MediaProcessing,
		generation.MediaFailed,
	}

	o := generation.NewOrchestrator(client, nil, testGenConfig(), placeholderURL, zerolog.Nop())
	_, err := o.Run(context.Background(), writeTempMedia(t))
	if !errors.Is(err, generation.ErrUpstreamRejected) {
		t.Fatalf("Run() error = %v, want ErrUpstreamRejected", err)
	}
	if client.CompleteCalls != 0 {
		t.Errorf("Complete called %d times after upstream rejection", client.CompleteCalls)
	}
}

func TestRunPollsUntilReady(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.PollStates = []generation.MediaState{
		generation.MediaProcessing,
		generation.MediaProcessing,
		generation.MediaReady,
	}
	client.CompleteText = validCompletion

	o := generation.NewOrchestrator(client, nil, testGenConfig(), placeholderURL, zerolog.Nop())
	if _, err := o.Run(context.Background(), writeTempMedia(t)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if client.PollCalls != 3 {
		t.Errorf("PollStatus called %d times, want 3", client.PollCalls)
	}
}

func TestRunRetryThenSuccess(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.CompleteFunc = func(attempt int) (string, error) {
		if attempt < 3 {
			return "", fmt.Errorf("transient upstream error")
		}
		return validCompletion, nil
	}

	o := generation.NewOrchestrator(client, nil, testGenConfig(), placeholderURL, zerolog.Nop())
	result, err := o.Run(context.Background(), writeTempMedia(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if client.CompleteCalls != 3 {
		t.Errorf("Complete called %d times, want exactly 3", client.CompleteCalls)
	}
	if result.Record.Title != "Team Sync" {
		t.Errorf("Title = %q", result.Record.Title)
	}
}

func TestRunRetryBudgetExhausted(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.CompleteError = fmt.Errorf("transient upstream error")

	o := generation.NewOrchestrator(client, nil, testGenConfig(), placeholderURL, zerolog.Nop())
	_, err := o.Run(context.Background(), writeTempMedia(t))
	if !errors.Is(err, generation.ErrGenerationFailed) {
		t.Fatalf("Run() error = %v, want ErrGenerationFailed", err)
	}
	if client.CompleteCalls != 3 {
		t.Errorf("Complete called %d times, want exactly 3 (no 4th attempt)", client.CompleteCalls)
	}
}

func TestRunCompletionRejectionSkipsRetry(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.CompleteError = fmt.Errorf("%w: unsupported media", generation.ErrUpstreamRejected)

	o := generation.NewOrchestrator(client, nil, testGenConfig(), placeholderURL, zerolog.Nop())
	_, err := o.Run(context.Background(), writeTempMedia(t))
	if !errors.Is(err, generation.ErrUpstreamRejected) {
		t.Fatalf("Run() error = %v, want ErrUpstreamRejected", err)
	}
	if client.CompleteCalls != 1 {
		t.Errorf("Complete called %d times, want 1 (rejection is not retried)", client.CompleteCalls)
	}
}

func TestRunImageFailureIsolation(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.CompleteText = validCompletion
	covers := &mocks.MockCoverService{Err: errors.New("image service down")}

	o := generation.NewOrchestrator(client, covers, testGenConfig(), placeholderURL, zerolog.Nop())
	result, err := o.Run(context.Background(), writeTempMedia(t))
	if err != nil {
		t.Fatalf("Run() error = %v, image failure must not abort the run", err)
	}
	if result.Record.CoverImageURL != placeholderURL {
		t.Errorf("CoverImageURL = %q, want placeholder", result.Record.CoverImageURL)
	}
	if !result.Degraded {
		t.Error("Degraded should be set when the cover image falls back")
	}
}

func TestRunExtractionDegradedStillSucceeds(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.CompleteText = "I could not produce JSON, sorry."

	o := generation.NewOrchestrator(client, nil, testGenConfig(), placeholderURL, zerolog.Nop())
	result, err := o.Run(context.Background(), writeTempMedia(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Degraded {
		t.Error("Degraded should be set for fallback extraction")
	}
	if result.Record.Body != client.CompleteText {
		t.Errorf("Body = %q, want raw output", result.Record.Body)
	}
	if result.Record.CoverImageURL != placeholderURL {
		t.Errorf("CoverImageURL = %q, want placeholder with no cover service", result.Record.CoverImageURL)
	}
}

func TestRunPollTimeout(t *testing.T) {
	client := mocks.NewMockGenerationClient()
	client.PollStates = []generation.MediaState{generation.MediaProcessing}

	cfg := testGenConfig()
	cfg.PollTimeout = 20 * time.Millisecond
	cfg.PollInterval = 5 * time.Millisecond

	o := generation.NewOrchestrator(client, nil, cfg, placeholderURL, zerolog.Nop())
	_, err := o.Run(context.Background(), writeTempMedia(t))
	if !errors.Is(err, generation.ErrGenerationFailed) {
		t.Fatalf("Run() error = %v, want ErrGenerationFailed on poll timeout", err)
	}
}
