package generation

import (
	"context"
	"errors"
	"io"
)

// MediaState is the readiness state of submitted media on the service side
type MediaState string

const (
	MediaProcessing MediaState = "processing"
	MediaReady      MediaState = "ready"
	MediaFailed     MediaState = "failed"
)

// Terminal pipeline errors. Only these three end a run; everything
// downstream of a successful completion degrades instead of failing.
var (
	// ErrMediaNotFound means the local media file does not exist. Input
	// errors are never retried.
	ErrMediaNotFound = errors.New("media file not found")

	// ErrUpstreamRejected means the generation service rejected the media
	// itself. The input is the problem, so retrying is pointless.
	ErrUpstreamRejected = errors.New("media rejected by generation service")

	// ErrGenerationFailed means the completion step failed after the full
	// retry budget.
	ErrGenerationFailed = errors.New("content generation failed")
)

// Client is the narrow contract against the external generation service.
// Implementations wrap input-rejection responses in ErrUpstreamRejected so
// the orchestrator can tell terminal failures from transient ones.
type Client interface {
	// Submit uploads media and returns an opaque handle.
	Submit(ctx context.Context, media io.Reader, filename, contentType string) (string, error)

	// PollStatus reports the readiness state of submitted media.
	PollStatus(ctx context.Context, handle string) (MediaState, error)

	// Complete requests a structured completion for ready media. The
	// returned text is free-form; the extractor recovers the record.
	Complete(ctx context.Context, handle string, instructions string) (string, error)
}
