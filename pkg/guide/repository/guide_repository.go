package repository

import (
	"context"

	"plantcare/entities"
)

type GuideRepository interface {
	// Save stores the document and its chunks together.
	Save(ctx context.Context, d *entities.GuideDocument, chunks []entities.GuideChunk) error
	// Chunks returns every chunk with its Document loaded.
	Chunks(ctx context.Context) ([]entities.GuideChunk, error)
}
