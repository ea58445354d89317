package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aura-archive-api/internal/config"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client using the official openai-go SDK: file
// upload for media submission, file status for readiness, and a chat
// completion with a file content part for the structured request.
type OpenAIClient struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIClient builds a client from explicit configuration. Credentials
// are passed in, never read from ambient globals.
func NewOpenAIClient(cfg *config.GenerationConfig) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{model: cfg.Model, opts: opts}
}

func (c *OpenAIClient) Submit(ctx context.Context, media io.Reader, filename, contentType string) (string, error) {
	client := openai.NewClient(c.opts...)
	f, err := client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(media, filename, contentType),
		Purpose: openai.FilePurposeUserData,
	})
	if err != nil {
		return "", classify(err)
	}
	return f.ID, nil
}

func (c *OpenAIClient) PollStatus(ctx context.Context, handle string) (MediaState, error) {
	client := openai.NewClient(c.opts...)
	f, err := client.Files.Get(ctx, handle)
	if err != nil {
		return MediaProcessing, classify(err)
	}
	switch string(f.Status) {
	case "processed":
		return MediaReady, nil
	case "error":
		return MediaFailed, nil
	default:
		return MediaProcessing, nil
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, handle string, instructions string) (string, error) {
	client := openai.NewClient(c.opts...)
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileID: openai.String(handle),
		}),
		openai.TextContentPart(instructions),
	}
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classify wraps input-rejection responses in ErrUpstreamRejected so the
// orchestrator skips its retry budget for them. Rate limits and timeouts
// stay transient.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusRequestTimeout:
			return err
		}
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return fmt.Errorf("%w: %v", ErrUpstreamRejected, err)
		}
	}
	return err
}
