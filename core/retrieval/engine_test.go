package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/siherrmann/docqa/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vector    []float32
	err       error
	lastInput string
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.lastInput = text
	if e.err != nil {
		return nil, e.err
	}
	return e.vector, nil
}

func (e *fakeEmbedder) Probe(ctx context.Context) error {
	_, err := e.Embed(ctx, "ping")
	return err
}

func (e *fakeEmbedder) Dimension() int {
	return len(e.vector)
}

type fakeChunkStore struct {
	results       []*model.RetrievalResult
	err           error
	lastEmbedding []float32
	lastLimit     int
}

func (s *fakeChunkStore) InsertChunk(chunk *model.Chunk) error {
	return nil
}

func (s *fakeChunkStore) SelectChunksBySimilarity(embedding []float32, limit int) ([]*model.RetrievalResult, error) {
	s.lastEmbedding = embedding
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *fakeChunkStore) CountChunks() (int, error) {
	return len(s.results), nil
}

func TestEngineRetrieve(t *testing.T) {
	t.Run("Retrieval passes the question embedding and limit through", func(t *testing.T) {
		store := &fakeChunkStore{
			results: []*model.RetrievalResult{
				{SourceID: "notes.md#0", Content: "first", Score: 0.9},
				{SourceID: "notes.md#1", Content: "second", Score: 0.8},
			},
		}
		embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
		engine := NewEngine(store, embedder)

		results, err := engine.Retrieve(context.Background(), "a question", 4)

		require.NoError(t, err)
		assert.Equal(t, "a question", embedder.lastInput)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, store.lastEmbedding)
		assert.Equal(t, 4, store.lastLimit)
		require.Equal(t, 2, len(results))
		assert.Equal(t, "notes.md#0", results[0].SourceID)
	})

	t.Run("Empty store yields an empty slice, not nil", func(t *testing.T) {
		store := &fakeChunkStore{results: nil}
		engine := NewEngine(store, &fakeEmbedder{vector: []float32{0.1}})

		results, err := engine.Retrieve(context.Background(), "a question", 4)

		require.NoError(t, err)
		require.NotNil(t, results)
		assert.Equal(t, 0, len(results))
	})

	t.Run("Embedding errors are propagated unchanged", func(t *testing.T) {
		embedErr := &model.DimensionMismatchError{Got: 3, Want: 768}
		engine := NewEngine(&fakeChunkStore{}, &fakeEmbedder{err: embedErr})

		_, err := engine.Retrieve(context.Background(), "a question", 4)

		require.Error(t, err)
		var mismatchErr *model.DimensionMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, 3, mismatchErr.Got)
	})

	t.Run("Storage errors are propagated", func(t *testing.T) {
		store := &fakeChunkStore{err: &model.StorageError{Operation: "similarity query", Err: fmt.Errorf("connection refused")}}
		engine := NewEngine(store, &fakeEmbedder{vector: []float32{0.1}})

		_, err := engine.Retrieve(context.Background(), "a question", 4)

		require.Error(t, err)
		var storageErr *model.StorageError
		assert.ErrorAs(t, err, &storageErr)
	})
}
