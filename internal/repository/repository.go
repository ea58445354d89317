package repository

import (
	"context"

	"github.com/aura-archive-api/internal/database"
	"github.com/aura-archive-api/internal/models"
)

// DraftRepository defines the interface for draft data operations.
// Keys are unique per upload, so two pipeline runs never write the same row.
type DraftRepository interface {
	Upsert(ctx context.Context, draft *models.Draft) error
	UpdateFields(ctx context.Context, id string, fields *models.DraftFields) error
	GetByID(ctx context.Context, id string) (*models.Draft, error)
	ListByStatus(ctx context.Context, status models.DraftStatus, limit int) ([]*models.Draft, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Draft DraftRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Draft: NewDraftRepo(db),
	}
}
