package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/aura-archive-api/internal/api"
	"github.com/aura-archive-api/internal/config"
	"github.com/aura-archive-api/internal/mocks"
	"github.com/aura-archive-api/internal/models"
	"github.com/aura-archive-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *mocks.MockDraftService, *mocks.MockPipelineService) {
	gin.SetMode(gin.TestMode)

	mockDraft := mocks.NewMockDraftService()
	mockPipeline := &mocks.MockPipelineService{}

	services := &service.Services{
		Draft:    mockDraft,
		Pipeline: mockPipeline,
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Upload: config.UploadConfig{
			MaxUploadSize: 100 * 1024 * 1024,
			TempDir:       t.TempDir(),
		},
	}

	log := zerolog.Nop()
	router := api.NewRouter(services, cfg, log)

	return router, mockDraft, mockPipeline
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "aura-archive-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestUploadAcceptedImmediately(t *testing.T) {
	router, _, mockPipeline := setupTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "meeting.mp3")
	part.Write([]byte("fake audio bytes"))
	writer.Close()

	req := httptest.NewRequest("POST", "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["id"] != "draft-1" {
		t.Errorf("Expected draft id in response, got %v", response["id"])
	}
	if response["status"] != string(models.StatusProcessing) {
		t.Errorf("Expected PROCESSING status, got %v", response["status"])
	}

	if len(mockPipeline.Enqueued) != 1 || mockPipeline.Enqueued[0] != "draft-1" {
		t.Errorf("Pipeline enqueued = %v", mockPipeline.Enqueued)
	}
	if len(mockPipeline.Paths) != 1 {
		t.Fatal("Pipeline received no media path")
	}
	if _, err := os.Stat(mockPipeline.Paths[0]); err != nil {
		t.Errorf("Uploaded temp file missing: %v", err)
	}
}

func TestUploadWithoutFile(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest("POST", "/api/upload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListDrafts(t *testing.T) {
	router, mockDraft, _ := setupTestRouter(t)
	mockDraft.Drafts["d1"] = &models.Draft{ID: "d1", Status: models.StatusReviewPending, Title: "Pending"}
	mockDraft.Drafts["d2"] = &models.Draft{ID: "d2", Status: models.StatusPublished, Title: "Live"}

	req := httptest.NewRequest("GET", "/api/drafts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var drafts []models.Draft
	json.Unmarshal(w.Body.Bytes(), &drafts)
	if len(drafts) != 1 || drafts[0].ID != "d1" {
		t.Errorf("Expected only the REVIEW_PENDING draft, got %v", drafts)
	}
}

func TestGetDraftNotFound(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/drafts/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestSaveDraft(t *testing.T) {
	router, mockDraft, _ := setupTestRouter(t)
	mockDraft.Drafts["d1"] = &models.Draft{ID: "d1", Status: models.StatusReviewPending}

	payload, _ := json.Marshal(models.SaveRequest{
		Title:   "Edited Title",
		Summary: "Edited summary",
		Content: "# Edited",
	})
	req := httptest.NewRequest("PUT", "/api/save/d1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if mockDraft.Drafts["d1"].Title != "Edited Title" {
		t.Errorf("Title = %q", mockDraft.Drafts["d1"].Title)
	}
}

func TestSaveDraftMissingFields(t *testing.T) {
	router, mockDraft, _ := setupTestRouter(t)
	mockDraft.Drafts["d1"] = &models.Draft{ID: "d1", Status: models.StatusReviewPending}

	req := httptest.NewRequest("PUT", "/api/save/d1", bytes.NewReader([]byte(`{"summary":"only"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if mockDraft.SaveCalls != 0 {
		t.Error("Save should not be called for an invalid payload")
	}
}

func TestSaveDraftInvalidTransition(t *testing.T) {
	router, mockDraft, _ := setupTestRouter(t)
	mockDraft.Drafts["d1"] = &models.Draft{ID: "d1", Status: models.StatusPublished}
	mockDraft.SaveError = service.ErrInvalidTransition

	payload, _ := json.Marshal(models.SaveRequest{Title: "T", Content: "B"})
	req := httptest.NewRequest("PUT", "/api/save/d1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestPublishDraft(t *testing.T) {
	router, mockDraft, _ := setupTestRouter(t)
	mockDraft.Drafts["d1"] = &models.Draft{ID: "d1", Status: models.StatusReviewPending}

	req := httptest.NewRequest("POST", "/api/publish/d1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if mockDraft.Drafts["d1"].Status != models.StatusPublished {
		t.Errorf("Status = %s", mockDraft.Drafts["d1"].Status)
	}
}

func TestPublishDraftNotFound(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest("POST", "/api/publish/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestFeed(t *testing.T) {
	router, mockDraft, _ := setupTestRouter(t)
	mockDraft.FeedItems = []models.FeedItem{
		{ID: "d1", Title: "Live Post", HTML: "<h1>Live Post</h1>"},
	}

	req := httptest.NewRequest("GET", "/api/feed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var items []models.FeedItem
	json.Unmarshal(w.Body.Bytes(), &items)
	if len(items) != 1 || items[0].HTML != "<h1>Live Post</h1>" {
		t.Errorf("Feed items = %v", items)
	}
}
