package service

import (
	"context"

	"github.com/aura-archive-api/internal/cache"
	"github.com/aura-archive-api/internal/config"
	"github.com/aura-archive-api/internal/generation"
	"github.com/aura-archive-api/internal/models"
	"github.com/aura-archive-api/internal/repository"
	"github.com/rs/zerolog"
)

// PipelineRunner executes one generation run for a media file. It is the
// orchestrator behind an interface so services can be tested without the
// external generation service.
type PipelineRunner interface {
	Run(ctx context.Context, mediaPath string) (*generation.Result, error)
}

// DraftService defines the interface for draft lifecycle operations
type DraftService interface {
	CreateDraft(ctx context.Context) (*models.Draft, error)
	GetDraft(ctx context.Context, id string) (*models.Draft, error)
	ListReviewPending(ctx context.Context) ([]*models.Draft, error)
	Save(ctx context.Context, id string, req *models.SaveRequest) error
	Publish(ctx context.Context, id string) error
	Feed(ctx context.Context) ([]models.FeedItem, error)
	Count(ctx context.Context) (int, error)
}

// PipelineService defines the interface for background pipeline execution
type PipelineService interface {
	Enqueue(draftID, mediaPath string)
	Stop()
}

// Services holds all service interfaces
type Services struct {
	Draft    DraftService
	Pipeline PipelineService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, runner PipelineRunner, feedCache *cache.Cache, cfg *config.Config, log zerolog.Logger) *Services {
	draftSvc := newDraftService(repos, feedCache, cfg, log)
	pipelineSvc := newPipelineService(repos, runner, cfg, log)

	return &Services{
		Draft:    draftSvc,
		Pipeline: pipelineSvc,
	}
}
