package models

import (
	"time"
)

// DraftStatus represents the lifecycle state of a draft
type DraftStatus string

const (
	StatusProcessing    DraftStatus = "PROCESSING"
	StatusReviewPending DraftStatus = "REVIEW_PENDING"
	StatusPublished     DraftStatus = "PUBLISHED"
	StatusFailed        DraftStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s DraftStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusReviewPending, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// Reference is one external link attached to a generated document
type Reference struct {
	Label string `json:"title"`
	URL   string `json:"url"`
	Note  string `json:"description,omitempty"`
}

// ContentRecord is the canonical structured result of one generation run.
// Every field is populated by the time the orchestrator returns; fallback
// paths fill placeholders rather than leaving fields empty.
type ContentRecord struct {
	Title         string      `json:"title"`
	Summary       string      `json:"summary"`
	Body          string      `json:"blog_markdown"`
	ImageHint     string      `json:"image_prompt"`
	References    []Reference `json:"external_links"`
	CoverImageURL string      `json:"image_url,omitempty"`
}

// Draft represents one upload's end-to-end record
type Draft struct {
	ID            string      `json:"id" db:"id"`
	Status        DraftStatus `json:"status" db:"status"`
	Title         string      `json:"title" db:"title"`
	Summary       string      `json:"summary" db:"summary"`
	Content       string      `json:"content" db:"content"`
	ImageURL      string      `json:"image_url" db:"image_url"`
	ExternalLinks []Reference `json:"external_links" db:"-"`
	LinksJSON     string      `json:"-" db:"external_links"` // For DB storage
	Degraded      bool        `json:"degraded,omitempty" db:"degraded"`
	Error         string      `json:"error,omitempty" db:"error"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// DraftFields is a partial update set; nil fields are left untouched
type DraftFields struct {
	Status        *DraftStatus
	Title         *string
	Summary       *string
	Content       *string
	ImageURL      *string
	ExternalLinks []Reference
	Degraded      *bool
	Error         *string
}

// SaveRequest is the editor save payload
type SaveRequest struct {
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary"`
	Content string `json:"blog_markdown" binding:"required"`
}

// FeedItem is one published draft in the public feed, with the markdown
// body rendered to HTML
type FeedItem struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Summary   string      `json:"summary"`
	ContentMD string      `json:"content"`
	HTML      string      `json:"html"`
	ImageURL  string      `json:"image_url"`
	Links     []Reference `json:"external_links"`
	CreatedAt time.Time   `json:"created_at"`
}
