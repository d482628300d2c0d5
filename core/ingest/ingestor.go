package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/siherrmann/docqa/core/pipeline"
	"github.com/siherrmann/docqa/database"
	"github.com/siherrmann/docqa/helper"
	"github.com/siherrmann/docqa/model"
)

// Report summarizes one ingestion run.
type Report struct {
	Files  int `json:"files"`
	Chunks int `json:"chunks"`
	Stored int `json:"stored"`
}

// ProgressFunc is invoked after each processed file, e.g. to drive a
// progress bar in the CLI.
type ProgressFunc func(processed, total int, file string)

// Ingestor populates the chunk store from the files under a source root.
// Runs are strictly sequential across files and across chunks within a
// file: each chunk's embedding and insert complete before the next begins,
// so an aborted run has a well-defined boundary.
type Ingestor struct {
	root     string
	chunker  pipeline.ChunkFunc
	embedder pipeline.Embedder
	chunks   database.ChunksDBHandlerFunctions
	progress ProgressFunc
	log      *slog.Logger
}

// NewIngestor creates an ingestor over the given source root.
func NewIngestor(root string, pipe *pipeline.Pipeline, chunks database.ChunksDBHandlerFunctions, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		root:     root,
		chunker:  pipe.Chunker,
		embedder: pipe.Embedder,
		chunks:   chunks,
		log:      logger,
	}
}

// SetProgress registers a callback invoked after each processed file.
func (in *Ingestor) SetProgress(progress ProgressFunc) {
	in.progress = progress
}

// Run discovers, chunks, embeds and stores all source files. Unreadable
// files are skipped with a warning, but any embedding or storage failure
// aborts the whole run: a half-built index is worse than none. The report
// reflects everything done up to the abort.
func (in *Ingestor) Run(ctx context.Context) (*Report, error) {
	in.log.Info("Verifying embeddings service")
	if err := in.embedder.Probe(ctx); err != nil {
		return nil, helper.NewError("probe embeddings service", err)
	}

	files, err := DiscoverFiles(in.root)
	if err != nil {
		return nil, helper.NewError("discover files", err)
	}

	report := &Report{Files: len(files)}
	if len(files) == 0 {
		in.log.Info("No files to index", slog.String("root", in.root))
		return report, nil
	}

	in.log.Info("Discovered files for ingestion", slog.Int("files", len(files)))

	for n, path := range files {
		content, err := ReadFileContent(filepath.Join(in.root, path))
		if err != nil {
			in.log.Warn("Skipping unreadable file", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}

		chunks, err := in.chunker(content)
		if err != nil {
			return report, helper.NewError(fmt.Sprintf("chunk %v", path), err)
		}
		if len(chunks) == 0 {
			in.log.Warn("Skipping file without extractable text", slog.String("path", path))
			continue
		}

		in.log.Info("Processing file", slog.String("path", path), slog.Int("chunks", len(chunks)))

		for i, text := range chunks {
			report.Chunks++

			embedding, err := in.embedder.Embed(ctx, text)
			if err != nil {
				return report, helper.NewError(fmt.Sprintf("embed %v#%v", path, i), err)
			}

			chunk := &model.Chunk{
				SourceID:  fmt.Sprintf("%v#%v", path, i),
				Content:   text,
				Embedding: embedding,
			}
			if err := in.chunks.InsertChunk(chunk); err != nil {
				return report, helper.NewError(fmt.Sprintf("store %v#%v", path, i), err)
			}
			report.Stored++
		}

		if in.progress != nil {
			in.progress(n+1, len(files), path)
		}
	}

	in.log.Info("Ingestion finished",
		slog.Int("files", report.Files),
		slog.Int("chunks", report.Chunks),
		slog.Int("stored", report.Stored),
	)

	return report, nil
}
