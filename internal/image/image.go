package image

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// coverPromptTemplate wraps the record's image hint into the full
// generation prompt.
const coverPromptTemplate = "A high-quality, futuristic, minimalist tech blog cover image. No text. Theme: %s"

// Generator produces raw image bytes for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Store persists image bytes and returns a permanent URL
type Store interface {
	UploadPermanent(ctx context.Context, key string, data []byte) (string, error)
}

// Service chains image generation and permanent storage. Any error
// anywhere in the chain is returned to the caller, which substitutes a
// placeholder URL.
type Service struct {
	gen   Generator
	store Store
	log   zerolog.Logger
}

// NewService creates a cover image service
func NewService(gen Generator, store Store, log zerolog.Logger) *Service {
	return &Service{
		gen:   gen,
		store: store,
		log:   log.With().Str("component", "image").Logger(),
	}
}

// CoverImage generates a cover image for the hint and uploads it to
// permanent storage, returning the permanent URL.
func (s *Service) CoverImage(ctx context.Context, hint string) (string, error) {
	prompt := fmt.Sprintf(coverPromptTemplate, hint)
	s.log.Info().Str("hint", hint).Msg("Generating cover image")

	data, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating cover image: %w", err)
	}

	key := uuid.New().String() + ".png"
	url, err := s.store.UploadPermanent(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("uploading cover image: %w", err)
	}

	s.log.Info().Str("url", url).Msg("Cover image uploaded")
	return url, nil
}
