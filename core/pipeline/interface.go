package pipeline

import "context"

// ChunkFunc is a function that splits raw document text into bounded-size
// segments suitable for embedding.
type ChunkFunc func(text string) ([]string, error)

// Embedder converts text into a fixed-dimension embedding vector through an
// external service. Probe verifies the service responds before a bulk run.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Probe(ctx context.Context) error
	Dimension() int
}

// Pipeline combines chunking and embedding.
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder Embedder
}

// NewPipeline creates a new processing pipeline
func NewPipeline(chunker ChunkFunc, embedder Embedder) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
	}
}
