package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/docqa/helper"
	"github.com/siherrmann/docqa/model"
	loadSql "github.com/siherrmann/docqa/sql"
)

// ChunksDBHandlerFunctions defines the interface for chunk store operations.
type ChunksDBHandlerFunctions interface {
	InsertChunk(chunk *model.Chunk) error
	SelectChunksBySimilarity(embedding []float32, limit int) ([]*model.RetrievalResult, error)
	CountChunks() (int, error)
}

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It loads the chunk-related SQL functions and ensures the chunks table and
// its similarity index exist. Both steps are idempotent, so calling this on
// every process start is safe. If force is true, the SQL functions are
// reloaded even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table in the database.
// If the table already exists, it does not create it again.
// It also creates the vector similarity index over the embedding column.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		return &model.StorageError{Operation: "initialize chunks table", Err: err}
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// InsertChunk appends one chunk row. There are no upsert semantics;
// re-ingesting the same source produces a duplicate row.
func (h *ChunksDBHandler) InsertChunk(chunk *model.Chunk) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chunk($1, $2, $3)`,
		chunk.SourceID,
		chunk.Content,
		pgvector.NewVector(chunk.Embedding),
	)

	err := row.Scan(
		&chunk.ID,
		&chunk.SourceID,
		&chunk.Content,
		&chunk.CreatedAt,
	)
	if err != nil {
		return &model.StorageError{Operation: "insert chunk", Err: err}
	}

	return nil
}

// SelectChunksBySimilarity performs vector similarity search, returning at
// most limit rows ordered by descending score. An empty store yields an
// empty result, not an error.
func (h *ChunksDBHandler) SelectChunksBySimilarity(embedding []float32, limit int) ([]*model.RetrievalResult, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, &model.StorageError{Operation: "similarity query", Err: err}
	}
	defer rows.Close()

	results := []*model.RetrievalResult{}
	for rows.Next() {
		result := &model.RetrievalResult{}
		err := rows.Scan(
			&result.SourceID,
			&result.Content,
			&result.Score,
		)
		if err != nil {
			return nil, &model.StorageError{Operation: "scan similarity row", Err: err}
		}

		results = append(results, result)
	}

	err = rows.Err()
	if err != nil {
		return nil, &model.StorageError{Operation: "similarity rows", Err: err}
	}

	return results, nil
}

// CountChunks returns the number of stored chunks.
func (h *ChunksDBHandler) CountChunks() (int, error) {
	var count int
	err := h.db.Instance.QueryRow(`SELECT count_chunks()`).Scan(&count)
	if err != nil {
		return 0, &model.StorageError{Operation: "count chunks", Err: err}
	}
	return count, nil
}
