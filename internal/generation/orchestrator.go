package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aura-archive-api/internal/config"
	"github.com/aura-archive-api/internal/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// CoverService produces a permanent cover image URL for an image hint.
// Failures are absorbed by the orchestrator, never propagated.
type CoverService interface {
	CoverImage(ctx context.Context, hint string) (string, error)
}

// Result is the outcome of one successful pipeline run
type Result struct {
	Record models.ContentRecord

	// Degraded is set when a fallback path produced part of the record
	// (unparseable output or a placeholder cover image). The run still
	// counts as a success.
	Degraded bool
}

// Orchestrator drives the end-to-end generation sequence for one media
// file: submit, await readiness, request a completion with bounded retry,
// extract, and attach a cover image.
type Orchestrator struct {
	client         Client
	covers         CoverService
	cfg            *config.GenerationConfig
	placeholderURL string
	log            zerolog.Logger
}

// NewOrchestrator creates an Orchestrator. covers may be nil, in which
// case every record gets the placeholder cover URL.
func NewOrchestrator(client Client, covers CoverService, cfg *config.GenerationConfig, placeholderURL string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client:         client,
		covers:         covers,
		cfg:            cfg,
		placeholderURL: placeholderURL,
		log:            log.With().Str("component", "orchestrator").Logger(),
	}
}

// Run executes the pipeline for mediaPath. It fails only with
// ErrMediaNotFound, ErrUpstreamRejected, or ErrGenerationFailed; anything
// downstream of a successful completion degrades instead of failing.
func (o *Orchestrator) Run(ctx context.Context, mediaPath string) (*Result, error) {
	if _, err := os.Stat(mediaPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMediaNotFound, mediaPath)
	}

	contentType := DetectContentType(mediaPath)
	o.log.Info().Str("media", mediaPath).Str("content_type", contentType).Msg("Submitting media")

	handle, err := o.submit(ctx, mediaPath, contentType)
	if err != nil {
		return nil, err
	}

	if err := o.awaitReady(ctx, handle); err != nil {
		return nil, err
	}

	raw, err := o.complete(ctx, handle)
	if err != nil {
		return nil, err
	}

	record, degraded := Extract(raw)
	if degraded {
		o.log.Warn().Str("media", mediaPath).Msg("Structured extraction fell back to raw output")
	}

	coverURL, coverOK := o.coverImage(ctx, record.ImageHint)
	record.CoverImageURL = coverURL

	o.log.Info().Str("media", mediaPath).Str("title", record.Title).Msg("Pipeline completed")
	return &Result{Record: record, Degraded: degraded || !coverOK}, nil
}

func (o *Orchestrator) submit(ctx context.Context, mediaPath, contentType string) (string, error) {
	f, err := os.Open(mediaPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMediaNotFound, mediaPath)
	}
	defer f.Close()

	handle, err := o.client.Submit(ctx, f, f.Name(), contentType)
	if err != nil {
		if errors.Is(err, ErrUpstreamRejected) {
			return "", err
		}
		return "", fmt.Errorf("%w: submitting media: %v", ErrGenerationFailed, err)
	}
	return handle, nil
}

// awaitReady polls the handle until it leaves the processing state. The
// wait is bounded by PollTimeout; an upstream "failed" state is terminal
// because the input itself is the problem.
func (o *Orchestrator) awaitReady(ctx context.Context, handle string) error {
	pollCtx, cancel := context.WithTimeout(ctx, o.cfg.PollTimeout)
	defer cancel()

	for {
		state, err := o.client.PollStatus(pollCtx, handle)
		if err != nil {
			return fmt.Errorf("%w: polling media status: %v", ErrGenerationFailed, err)
		}
		switch state {
		case MediaReady:
			return nil
		case MediaFailed:
			return fmt.Errorf("%w: handle %s", ErrUpstreamRejected, handle)
		}

		select {
		case <-pollCtx.Done():
			return fmt.Errorf("%w: media not ready after %s", ErrGenerationFailed, o.cfg.PollTimeout)
		case <-time.After(o.cfg.PollInterval):
		}
	}
}

// complete requests the structured completion under the bounded retry
// policy: MaxAttempts total attempts, waiting BackoffBase*2^attempt
// between them.
func (o *Orchestrator) complete(ctx context.Context, handle string) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = o.cfg.BackoffBase
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	var raw string
	attempt := 0
	operation := func() error {
		attempt++
		text, err := o.client.Complete(ctx, handle, InstructionTemplate())
		if err != nil {
			if errors.Is(err, ErrUpstreamRejected) {
				return backoff.Permanent(err)
			}
			o.log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", o.cfg.MaxAttempts).
				Msg("Completion attempt failed")
			return err
		}
		raw = text
		return nil
	}

	retries := uint64(o.cfg.MaxAttempts - 1)
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))
	if err != nil {
		if errors.Is(err, ErrUpstreamRejected) {
			return "", err
		}
		return "", fmt.Errorf("%w after %d attempts: %v", ErrGenerationFailed, attempt, err)
	}
	return raw, nil
}

// coverImage is best-effort: any failure in the generate-and-upload chain
// yields the placeholder URL so an otherwise-successful run is not lost.
func (o *Orchestrator) coverImage(ctx context.Context, hint string) (string, bool) {
	if o.covers == nil {
		return o.placeholderURL, false
	}
	url, err := o.covers.CoverImage(ctx, hint)
	if err != nil {
		o.log.Warn().Err(err).Str("hint", hint).Msg("Cover image generation failed, using placeholder")
		return o.placeholderURL, false
	}
	return url, true
}
