package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/intelliexam/exam-api/internal/config"
	"github.com/intelliexam/exam-api/internal/export"
	"github.com/intelliexam/exam-api/internal/extract"
	"github.com/intelliexam/exam-api/internal/generation"
	"github.com/intelliexam/exam-api/internal/orchestrator"
	"github.com/intelliexam/exam-api/internal/platform/atlas"
	"github.com/intelliexam/exam-api/internal/platform/gemini"
	"github.com/intelliexam/exam-api/internal/prompt"
	"github.com/intelliexam/exam-api/internal/reply"
	"github.com/intelliexam/exam-api/internal/retrieval"
	"github.com/intelliexam/exam-api/internal/selection"
	"github.com/intelliexam/exam-api/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
)

// application holds the wired dependencies of the server.
type application struct {
	config          *config.Config
	logger          *slog.Logger
	mongoClient     *mongo.Client
	questionService service.QuestionService
	exporter        export.Exporter
}

// newApplication connects the external adapters and wires the pipeline.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	genaiClient, err := gemini.NewClient(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	opener, err := gemini.NewSessionOpener(genaiClient, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session opener: %w", err)
	}
	embedder, err := gemini.NewEmbedder(genaiClient, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	mongoClient, err := atlas.Connect(ctx, cfg.Retrieval.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Atlas: %w", err)
	}

	svc, err := newQuestionService(cfg, opener, embedder, mongoClient, logger)
	if err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}

	return &application{
		config:          cfg,
		logger:          logger,
		mongoClient:     mongoClient,
		questionService: svc,
		exporter:        export.NewXLSXExporter(),
	}, nil
}

// newQuestionService builds the generation pipeline from its adapters.
func newQuestionService(
	cfg *config.Config,
	opener generation.SessionOpener,
	embedder retrieval.Embedder,
	mongoClient *mongo.Client,
	logger *slog.Logger,
) (service.QuestionService, error) {
	retriever, err := atlas.NewVectorRetriever(mongoClient, embedder, cfg.Retrieval, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	client, err := generation.NewRetryingClient(opener, retryPolicy(cfg.Generation), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	orch, err := orchestrator.New(client, prompt.NewBuilder(), orchestratorOptions(cfg.Generation), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	selector, err := selection.NewSelector(retriever, cfg.Generation.MaxConcurrentSessions, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create selector: %w", err)
	}

	extractor, err := extract.NewPDFExtractor(cfg.Extract.MinChunkLength, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	policy, err := reply.ParsePolicy(cfg.Generation.MalformedReplyPolicy)
	if err != nil {
		return nil, err
	}
	aggregator, err := reply.NewAggregator(policy, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create aggregator: %w", err)
	}

	return service.NewQuestionService(extractor, selector, orch, aggregator, cfg.Generation.MaxAnswerLength, logger)
}

// retryPolicy maps configuration onto the generation retry policy.
func retryPolicy(cfg config.GenerationConfig) generation.RetryPolicy {
	policy := generation.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.MaxAttempts
	policy.BaseDelay = cfg.RetryBaseDelay()
	policy.MaxDelay = cfg.RetryMaxDelay()
	policy.Deadline = cfg.RetryDeadline()
	return policy
}

// orchestratorOptions maps configuration onto orchestrator options.
func orchestratorOptions(cfg config.GenerationConfig) orchestrator.Options {
	return orchestrator.Options{
		MaxConcurrent:   cfg.MaxConcurrentSessions,
		PartialOnCancel: cfg.PartialOnCancel,
		Timeouts: generation.TimeoutBudget{
			Base:    cfg.TimeoutBase(),
			PerItem: cfg.TimeoutPerQuestion(),
		},
	}
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases external connections.
func (app *application) cleanup() {
	if app.mongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.mongoClient.Disconnect(ctx); err != nil {
		app.logger.Error("Failed to disconnect from Atlas", "error", err)
	}
}
