package retrieval

import (
	"context"

	"github.com/siherrmann/docqa/core/pipeline"
	"github.com/siherrmann/docqa/database"
	"github.com/siherrmann/docqa/model"
)

// Engine answers "which stored chunks are closest to this question".
type Engine struct {
	chunks   database.ChunksDBHandlerFunctions
	embedder pipeline.Embedder
}

// NewEngine creates a new retrieval engine
func NewEngine(chunks database.ChunksDBHandlerFunctions, embedder pipeline.Embedder) *Engine {
	return &Engine{
		chunks:   chunks,
		embedder: embedder,
	}
}

// Retrieve embeds the question and returns up to k passages ordered by
// descending similarity. Embedding errors are propagated unchanged, so the
// caller can distinguish a dimension mismatch from an unreachable service.
func (e *Engine) Retrieve(ctx context.Context, question string, k int) ([]*model.RetrievalResult, error) {
	embedding, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	results, err := e.chunks.SelectChunksBySimilarity(embedding, k)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []*model.RetrievalResult{}
	}

	return results, nil
}
