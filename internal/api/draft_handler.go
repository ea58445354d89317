package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aura-archive-api/internal/config"
	"github.com/aura-archive-api/internal/models"
	"github.com/aura-archive-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DraftHandler handles draft endpoints
type DraftHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "draft").Logger(),
	}
}

// Upload handles POST /api/upload.
// Receives an audio file, returns the draft id immediately, and starts
// the generation pipeline in the background.
func (h *DraftHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	defer file.Close()

	// Validate file size
	if header.Size > h.cfg.Upload.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Upload.MaxUploadSize/(1024*1024)),
		})
		return
	}

	draft, err := h.services.Draft.CreateDraft(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create draft")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create draft"})
		return
	}

	// Save the upload to scoped temp storage; the pipeline removes it
	// when the run ends
	filename := fmt.Sprintf("temp_%s_%s", draft.ID, filepath.Base(header.Filename))
	tempPath := filepath.Join(h.cfg.Upload.TempDir, filename)

	dst, err := os.Create(tempPath)
	if err != nil {
		h.log.Error().Err(err).Str("path", tempPath).Msg("Failed to create temp file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.log.Error().Err(err).Msg("Failed to copy file")
		os.Remove(tempPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	h.services.Pipeline.Enqueue(draft.ID, tempPath)

	h.log.Info().
		Str("draft_id", draft.ID).
		Str("file", header.Filename).
		Int64("size_bytes", header.Size).
		Msg("Upload accepted")

	c.JSON(http.StatusAccepted, gin.H{
		"id":      draft.ID,
		"status":  draft.Status,
		"message": "Upload accepted",
	})
}

// ListDrafts handles GET /api/drafts (admin dashboard, REVIEW_PENDING)
func (h *DraftHandler) ListDrafts(c *gin.Context) {
	drafts, err := h.services.Draft.ListReviewPending(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list drafts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list drafts"})
		return
	}
	c.JSON(http.StatusOK, drafts)
}

// GetDraft handles GET /api/drafts/:id (status polling)
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft, err := h.services.Draft.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		h.log.Error().Err(err).Msg("Failed to get draft")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get draft"})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Save handles PUT /api/save/:id (editor save button)
func (h *DraftHandler) Save(c *gin.Context) {
	var req models.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and blog_markdown are required"})
		return
	}

	if err := h.services.Draft.Save(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.writeLifecycleError(c, err, "save")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Saved"})
}

// Publish handles POST /api/publish/:id (publish button)
func (h *DraftHandler) Publish(c *gin.Context) {
	if err := h.services.Draft.Publish(c.Request.Context(), c.Param("id")); err != nil {
		h.writeLifecycleError(c, err, "publish")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Published"})
}

// Feed handles GET /api/feed (public app feed, PUBLISHED)
func (h *DraftHandler) Feed(c *gin.Context) {
	items, err := h.services.Draft.Feed(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build feed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build feed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *DraftHandler) writeLifecycleError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("action", action).Msg("Draft action failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action + " draft"})
	}
}
