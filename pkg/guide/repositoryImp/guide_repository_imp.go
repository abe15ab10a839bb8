package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/guide/repository"
)

type guideRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.GuideRepository { return &guideRepo{db} }

func (r *guideRepo) Save(ctx context.Context, d *entities.GuideDocument, chunks []entities.GuideChunk) error {
	return database.NewTransactor(r.db).WithinTx(ctx, func(ctx context.Context) error {
		conn := database.Conn(ctx, r.db)
		d.Chunks = len(chunks)
		if err := conn.Create(d).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		for i := range chunks {
			chunks[i].DocumentID = d.ID
		}
		return conn.Omit("Document").Create(&chunks).Error
	})
}

func (r *guideRepo) Chunks(ctx context.Context) ([]entities.GuideChunk, error) {
	var cs []entities.GuideChunk
	err := database.Conn(ctx, r.db).Preload("Document").Order("document_id ASC, ord ASC").Find(&cs).Error
	return cs, err
}
