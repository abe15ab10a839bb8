package service

import (
	"context"

	"plantcare/entities"
)

type NewGuide struct {
	Title     string
	Species   string
	Tags      string
	Text      string
	SourceURL string
}

// Hit is a matched chunk with its document.
type Hit struct {
	Chunk entities.GuideChunk
	Score float64
}

type GuideService interface {
	Ingest(ctx context.Context, in NewGuide) (*entities.GuideDocument, error)
	// Search ranks chunks for query; guides tagged with species rank higher.
	Search(ctx context.Context, query, species string, k int) ([]Hit, error)
	// ForSpecies returns up to maxChars of guide text about a species.
	ForSpecies(ctx context.Context, species string, maxChars int) string
}
