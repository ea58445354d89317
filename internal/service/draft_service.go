package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aura-archive-api/internal/cache"
	"github.com/aura-archive-api/internal/config"
	"github.com/aura-archive-api/internal/models"
	"github.com/aura-archive-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
)

// listPageSize bounds status-filtered listings
const listPageSize = 100

// ErrDraftNotFound is returned when no draft exists for the given id
var ErrDraftNotFound = errors.New("draft not found")

// draftService is the concrete implementation of DraftService
type draftService struct {
	repos     *repository.Repositories
	feedCache *cache.Cache // nil disables caching
	cfg       *config.Config
	log       zerolog.Logger
}

// newDraftService creates a new DraftService
func newDraftService(repos *repository.Repositories, feedCache *cache.Cache, cfg *config.Config, log zerolog.Logger) *draftService {
	return &draftService{
		repos:     repos,
		feedCache: feedCache,
		cfg:       cfg,
		log:       log.With().Str("service", "draft").Logger(),
	}
}

// CreateDraft registers a new upload: a fresh key in PROCESSING status.
// The pipeline outcome arrives later through the pipeline service.
func (s *draftService) CreateDraft(ctx context.Context) (*models.Draft, error) {
	draft := &models.Draft{
		ID:            uuid.New().String(),
		Status:        models.StatusProcessing,
		ExternalLinks: []models.Reference{},
		CreatedAt:     time.Now(),
	}
	if err := s.repos.Draft.Upsert(ctx, draft); err != nil {
		return nil, err
	}

	s.log.Info().Str("draft_id", draft.ID).Msg("Draft created")
	return draft, nil
}

// GetDraft retrieves a draft by id
func (s *draftService) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	draft, err := s.repos.Draft.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

// ListReviewPending returns drafts awaiting human review
func (s *draftService) ListReviewPending(ctx context.Context) ([]*models.Draft, error) {
	return s.repos.Draft.ListByStatus(ctx, models.StatusReviewPending, listPageSize)
}

// Save overwrites editable fields on a REVIEW_PENDING draft; the status
// does not change.
func (s *draftService) Save(ctx context.Context, id string, req *models.SaveRequest) error {
	draft, err := s.GetDraft(ctx, id)
	if err != nil {
		return err
	}

	status, err := Transition(draft.Status, EventEditorSave)
	if err != nil {
		return err
	}

	err = s.repos.Draft.UpdateFields(ctx, id, &models.DraftFields{
		Status:  &status,
		Title:   &req.Title,
		Summary: &req.Summary,
		Content: &req.Content,
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("draft_id", id).Msg("Draft saved")
	return nil
}

// Publish moves a REVIEW_PENDING draft to PUBLISHED and invalidates the
// cached feed.
func (s *draftService) Publish(ctx context.Context, id string) error {
	draft, err := s.GetDraft(ctx, id)
	if err != nil {
		return err
	}

	status, err := Transition(draft.Status, EventPublish)
	if err != nil {
		return err
	}

	if err := s.repos.Draft.UpdateFields(ctx, id, &models.DraftFields{Status: &status}); err != nil {
		return err
	}

	if err := s.feedCache.Delete(ctx, cache.FeedKey); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate feed cache")
	}

	s.log.Info().Str("draft_id", id).Msg("Draft published")
	return nil
}

// Feed returns published drafts with their markdown bodies rendered to
// HTML, served from cache when possible.
func (s *draftService) Feed(ctx context.Context) ([]models.FeedItem, error) {
	if cached, err := s.feedCache.Get(ctx, cache.FeedKey); err == nil && cached != "" {
		var items []models.FeedItem
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	}

	drafts, err := s.repos.Draft.ListByStatus(ctx, models.StatusPublished, listPageSize)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(drafts))
	for _, d := range drafts {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(d.Content), &buf); err != nil {
			s.log.Warn().Err(err).Str("draft_id", d.ID).Msg("Markdown rendering failed")
		}
		items = append(items, models.FeedItem{
			ID:        d.ID,
			Title:     d.Title,
			Summary:   d.Summary,
			ContentMD: d.Content,
			HTML:      buf.String(),
			ImageURL:  d.ImageURL,
			Links:     d.ExternalLinks,
			CreatedAt: d.CreatedAt,
		})
	}

	if data, err := json.Marshal(items); err == nil {
		if err := s.feedCache.Set(ctx, cache.FeedKey, string(data), s.cfg.Cache.FeedTTL); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache feed")
		}
	}

	return items, nil
}

// Count returns the total number of drafts
func (s *draftService) Count(ctx context.Context) (int, error) {
	return s.repos.Draft.Count(ctx)
}
