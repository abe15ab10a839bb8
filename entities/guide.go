package entities

import "time"

// GuideDocument is an ingested care guide. Species, when set, ties the guide
// to the plants whose species name contains it.
type GuideDocument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `json:"title"`
	Species   string    `gorm:"index" json:"species,omitempty"`
	Tags      string    `json:"tags,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

type GuideChunk struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	DocumentID uint          `gorm:"index" json:"document_id"`
	Document   GuideDocument `gorm:"foreignKey:DocumentID" json:"-"`
	Ord        int           `json:"ord"`
	Text       string        `json:"text"`
	Embedding  []byte        `json:"-"`
}
