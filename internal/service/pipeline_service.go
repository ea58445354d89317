package service

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/aura-archive-api/internal/config"
	"github.com/aura-archive-api/internal/models"
	"github.com/aura-archive-api/internal/repository"
	"github.com/rs/zerolog"
)

// persistTimeout bounds the final status write so a run's outcome is not
// lost to a cancelled request context or an in-flight shutdown.
const persistTimeout = 10 * time.Second

// pipelineService runs generation pipelines in the background, one
// goroutine per upload. Runs share nothing but the repository, and each
// draft key is written by exactly one run.
type pipelineService struct {
	repos  *repository.Repositories
	runner PipelineRunner
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	// Semaphore: buffered channel bounding concurrent runs so a burst of
	// uploads cannot exhaust memory or upstream quotas
	sem chan struct{}
}

// newPipelineService creates a PipelineService with a worker bound sized
// for I/O-heavy work
func newPipelineService(repos *repository.Repositories, runner PipelineRunner, cfg *config.Config, log zerolog.Logger) *pipelineService {
	maxWorkers := cfg.Upload.MaxConcurrent
	if maxWorkers <= 0 {
		// Pipeline runs spend nearly all their time waiting on the
		// external service, so allow more workers than cores
		maxWorkers = runtime.NumCPU() * 4
		if maxWorkers < 4 {
			maxWorkers = 4
		}
		if maxWorkers > 32 {
			maxWorkers = 32
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := log.With().Str("service", "pipeline").Logger()
	l.Info().Int("max_workers", maxWorkers).Msg("Initializing pipeline worker pool")

	return &pipelineService{
		repos:  repos,
		runner: runner,
		log:    l,
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, maxWorkers),
	}
}

// Enqueue starts a background run for the draft. The caller has already
// received the draft id; outcome arrives through the persistence layer.
// The temp media file is removed on every exit path.
func (s *pipelineService) Enqueue(draftID, mediaPath string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := os.Remove(mediaPath); err != nil && !os.IsNotExist(err) {
				s.log.Warn().Err(err).Str("path", mediaPath).Msg("Failed to remove temp media file")
			}
		}()
		// Panic recovery: a bad run must not crash the process or leave
		// the draft stuck in PROCESSING
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Str("draft_id", draftID).
					Msg("Pipeline run panicked - recovered")
				s.persistFailure(draftID, "internal error during processing")
			}
		}()

		select {
		case s.sem <- struct{}{}:
		case <-s.ctx.Done():
			s.log.Warn().Str("draft_id", draftID).Msg("Run abandoned due to shutdown")
			return
		}
		defer func() { <-s.sem }()

		s.run(draftID, mediaPath)
	}()
}

// Stop cancels in-flight runs and waits for all goroutines to drain
func (s *pipelineService) Stop() {
	s.cancel()
	s.wg.Wait()
	s.log.Info().Msg("Pipeline service stopped")
}

func (s *pipelineService) run(draftID, mediaPath string) {
	start := time.Now()
	s.log.Info().Str("draft_id", draftID).Str("media", mediaPath).Msg("Pipeline run started")

	result, err := s.runner.Run(s.ctx, mediaPath)
	if err != nil {
		s.log.Error().Err(err).Str("draft_id", draftID).Msg("Pipeline run failed")
		s.persistFailure(draftID, err.Error())
		return
	}

	status, err := Transition(models.StatusProcessing, EventPipelineSucceeded)
	if err != nil {
		// Unreachable given the state machine; guard anyway
		s.persistFailure(draftID, err.Error())
		return
	}

	record := result.Record
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err = s.repos.Draft.UpdateFields(ctx, draftID, &models.DraftFields{
		Status:        &status,
		Title:         &record.Title,
		Summary:       &record.Summary,
		Content:       &record.Body,
		ImageURL:      &record.CoverImageURL,
		ExternalLinks: record.References,
		Degraded:      &result.Degraded,
	})
	if err != nil {
		s.log.Error().Err(err).Str("draft_id", draftID).Msg("Failed to persist pipeline result")
		return
	}

	s.log.Info().
		Str("draft_id", draftID).
		Str("title", record.Title).
		Bool("degraded", result.Degraded).
		Dur("duration", time.Since(start)).
		Msg("Pipeline run completed")
}

func (s *pipelineService) persistFailure(draftID, message string) {
	status, terr := Transition(models.StatusProcessing, EventPipelineFailed)
	if terr != nil {
		status = models.StatusFailed
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := s.repos.Draft.UpdateFields(ctx, draftID, &models.DraftFields{
		Status: &status,
		Error:  &message,
	})
	if err != nil {
		s.log.Error().Err(err).Str("draft_id", draftID).Msg("Failed to persist pipeline failure")
	}
}
