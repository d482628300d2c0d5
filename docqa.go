package docqa

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/siherrmann/docqa/core/answer"
	"github.com/siherrmann/docqa/core/ingest"
	"github.com/siherrmann/docqa/core/pipeline"
	"github.com/siherrmann/docqa/core/retrieval"
	"github.com/siherrmann/docqa/database"
	"github.com/siherrmann/docqa/helper"
	"github.com/siherrmann/docqa/model"
	loadSql "github.com/siherrmann/docqa/sql"
)

// DocQA wires the chunk store, processing pipeline, retrieval engine and
// answer synthesizer into the two externally visible operations: batch
// ingestion and question answering.
type DocQA struct {
	Config   *model.Config
	DB       *helper.Database
	Chunks   *database.ChunksDBHandler
	Pipeline *pipeline.Pipeline
	Engine   *retrieval.Engine
	Answers  *answer.Synthesizer
	// Logging
	log *slog.Logger
}

// NewDocQA creates a new DocQA instance with all components initialized.
// The schema setup is idempotent and safe to run on every process start.
func NewDocQA(config *model.Config, dbConfig *helper.DatabaseConfiguration) (*DocQA, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("docqa", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	chunks, err := database.NewChunksDBHandler(db, config.EmbeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	embedder := pipeline.NewHTTPEmbedder(
		config.EmbeddingsURL,
		config.EmbeddingsModel,
		config.EmbeddingDim,
		config.RequestTimeout,
	)
	pipe := pipeline.NewPipeline(pipeline.LengthChunker(config.ChunkSize), embedder)

	engine := retrieval.NewEngine(chunks, embedder)

	generator := answer.NewOpenAIChatClient(
		config.LLMURL,
		config.LLMModel,
		config.LLMAPIKey,
		config.LLMMaxTokens,
		config.LLMTemperature,
		config.RequestTimeout,
	)
	synthesizer := answer.NewSynthesizer(generator, config.LLMEnabled, config.LLMContextChars, logger)

	return &DocQA{
		Config:   config,
		DB:       db,
		Chunks:   chunks,
		Pipeline: pipe,
		Engine:   engine,
		Answers:  synthesizer,
		log:      logger,
	}, nil
}

// Close closes the database connection
func (d *DocQA) Close() error {
	if d.DB != nil && d.DB.Instance != nil {
		return d.DB.Instance.Close()
	}
	return nil
}

// Logger returns the process logger.
func (d *DocQA) Logger() *slog.Logger {
	return d.log
}

// NewIngestor returns an ingestor over the configured source root.
func (d *DocQA) NewIngestor() *ingest.Ingestor {
	return ingest.NewIngestor(d.Config.IngestPath, d.Pipeline, d.Chunks, d.log)
}

// AnswerQuestion runs retrieval and answer synthesis for one question.
// An empty question is rejected before any external call. Retrieval
// failures are returned as errors since no evidence can be shown without
// them; generation failures end up in the Answer instead. An empty
// retrieval result is a valid response, not an error.
func (d *DocQA) AnswerQuestion(ctx context.Context, question string) (*model.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &model.ValidationError{Field: "question"}
	}

	results, err := d.Engine.Retrieve(ctx, question, d.Config.TopK)
	if err != nil {
		return nil, err
	}

	return &model.QueryResult{
		Results: results,
		Answer:  d.Answers.Synthesize(ctx, question, results),
	}, nil
}
