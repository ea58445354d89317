package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aura-archive-api/internal/database"
	"github.com/aura-archive-api/internal/models"
)

// draftRepo is the concrete implementation of DraftRepository
type draftRepo struct {
	db *database.DB
}

// NewDraftRepo creates a new draft repository
func NewDraftRepo(db *database.DB) DraftRepository {
	return &draftRepo{db: db}
}

// Upsert inserts a draft or overwrites an existing row with the same key
func (r *draftRepo) Upsert(ctx context.Context, draft *models.Draft) error {
	links, err := marshalLinks(draft.ExternalLinks)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO drafts (id, status, title, summary, content, image_url, external_links,
			degraded, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status, title = EXCLUDED.title, summary = EXCLUDED.summary,
			content = EXCLUDED.content, image_url = EXCLUDED.image_url,
			external_links = EXCLUDED.external_links, degraded = EXCLUDED.degraded,
			error = EXCLUDED.error, updated_at = EXCLUDED.updated_at
	`
	now := draft.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	_, err = r.db.ExecContext(ctx, query,
		draft.ID, draft.Status, draft.Title, draft.Summary, draft.Content,
		draft.ImageURL, links, draft.Degraded, draft.Error, now,
	)
	return err
}

// UpdateFields applies a partial update; nil fields are left untouched
func (r *draftRepo) UpdateFields(ctx context.Context, id string, fields *models.DraftFields) error {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if fields.Status != nil {
		set = append(set, "status = "+arg(*fields.Status))
	}
	if fields.Title != nil {
		set = append(set, "title = "+arg(*fields.Title))
	}
	if fields.Summary != nil {
		set = append(set, "summary = "+arg(*fields.Summary))
	}
	if fields.Content != nil {
		set = append(set, "content = "+arg(*fields.Content))
	}
	if fields.ImageURL != nil {
		set = append(set, "image_url = "+arg(*fields.ImageURL))
	}
	if fields.ExternalLinks != nil {
		links, err := marshalLinks(fields.ExternalLinks)
		if err != nil {
			return err
		}
		set = append(set, "external_links = "+arg(links))
	}
	if fields.Degraded != nil {
		set = append(set, "degraded = "+arg(*fields.Degraded))
	}
	if fields.Error != nil {
		set = append(set, "error = "+arg(*fields.Error))
	}

	query := fmt.Sprintf("UPDATE drafts SET %s WHERE id = %s", strings.Join(set, ", "), arg(id))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID retrieves a draft by ID; returns (nil, nil) when not found
func (r *draftRepo) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	query := `
		SELECT id, status, title, summary, content, image_url, external_links,
			degraded, error, created_at, updated_at
		FROM drafts WHERE id = $1
	`
	draft, err := scanDraft(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// ListByStatus retrieves up to limit drafts in the given status, newest first
func (r *draftRepo) ListByStatus(ctx context.Context, status models.DraftStatus, limit int) ([]*models.Draft, error) {
	query := `
		SELECT id, status, title, summary, content, image_url, external_links,
			degraded, error, created_at, updated_at
		FROM drafts WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drafts := []*models.Draft{}
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

// Count returns the total number of drafts
func (r *draftRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM drafts").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row rowScanner) (*models.Draft, error) {
	var draft models.Draft
	var links []byte

	err := row.Scan(
		&draft.ID, &draft.Status, &draft.Title, &draft.Summary, &draft.Content,
		&draft.ImageURL, &links, &draft.Degraded, &draft.Error,
		&draft.CreatedAt, &draft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	draft.LinksJSON = string(links)
	if len(links) > 0 {
		if err := json.Unmarshal(links, &draft.ExternalLinks); err != nil {
			// Stored by us as valid JSON; a bad row should not sink the whole list
			draft.ExternalLinks = []models.Reference{}
		}
	}
	if draft.ExternalLinks == nil {
		draft.ExternalLinks = []models.Reference{}
	}
	return &draft, nil
}

func marshalLinks(links []models.Reference) (string, error) {
	if links == nil {
		links = []models.Reference{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return "", fmt.Errorf("failed to marshal external links: %w", err)
	}
	return string(data), nil
}
