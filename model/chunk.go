package model

import "time"

// Chunk represents one indexed slice of a source document. Chunks are
// created during ingestion and never mutated afterwards.
type Chunk struct {
	ID        int       `json:"id"`
	SourceID  string    `json:"source_id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
