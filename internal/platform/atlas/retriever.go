package atlas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/intelliexam/exam-api/internal/config"
	"github.com/intelliexam/exam-api/internal/retrieval"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// aggregator is the subset of *mongo.Collection the retriever uses.
type aggregator interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// VectorRetriever searches corpus databases with Atlas vector search.
type VectorRetriever struct {
	collection func(corpus retrieval.CorpusID) aggregator
	embedder   retrieval.Embedder
	cfg        config.RetrievalConfig
	logger     *slog.Logger
}

var _ retrieval.Retriever = (*VectorRetriever)(nil)

// NewVectorRetriever creates a retriever reading cfg.Collection from the
// database named after each corpus.
func NewVectorRetriever(
	client *mongo.Client,
	embedder retrieval.Embedder,
	cfg config.RetrievalConfig,
	logger *slog.Logger,
) (*VectorRetriever, error) {
	if client == nil {
		return nil, errors.New("mongo client cannot be nil")
	}
	return newVectorRetriever(func(corpus retrieval.CorpusID) aggregator {
		return client.Database(string(corpus)).Collection(cfg.Collection)
	}, embedder, cfg, logger)
}

func newVectorRetriever(
	collection func(corpus retrieval.CorpusID) aggregator,
	embedder retrieval.Embedder,
	cfg config.RetrievalConfig,
	logger *slog.Logger,
) (*VectorRetriever, error) {
	if embedder == nil {
		return nil, errors.New("embedder cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &VectorRetriever{
		collection: collection,
		embedder:   embedder,
		cfg:        cfg,
		logger:     logger.With("component", "vector_retriever"),
	}, nil
}

// Search embeds query and returns the k nearest passages in corpus.
func (r *VectorRetriever) Search(
	ctx context.Context,
	query string,
	corpus retrieval.CorpusID,
	k int,
) ([]retrieval.Passage, error) {
	if k <= 0 {
		return []retrieval.Passage{}, nil
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", corpus, err)
	}

	passages, err := r.aggregate(ctx, corpus, SearchPipeline(r.cfg, vector, k))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", corpus, err)
	}

	r.logger.DebugContext(ctx, "Vector search completed",
		"corpus", corpus,
		"query_length", len(query),
		"results", len(passages))
	return passages, nil
}

// Sample returns n random passages from corpus.
func (r *VectorRetriever) Sample(ctx context.Context, n int, corpus retrieval.CorpusID) ([]retrieval.Passage, error) {
	if n <= 0 {
		return []retrieval.Passage{}, nil
	}

	passages, err := r.aggregate(ctx, corpus, SamplePipeline(n))
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", corpus, err)
	}
	return passages, nil
}

func (r *VectorRetriever) aggregate(
	ctx context.Context,
	corpus retrieval.CorpusID,
	pipeline mongo.Pipeline,
) ([]retrieval.Passage, error) {
	cursor, err := r.collection(corpus).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var passages []retrieval.Passage
	if err := cursor.All(ctx, &passages); err != nil {
		return nil, err
	}
	if passages == nil {
		passages = []retrieval.Passage{}
	}
	return passages, nil
}

// SearchPipeline builds the $vectorSearch aggregation returning content and score.
func SearchPipeline(cfg config.RetrievalConfig, vector []float32, k int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: cfg.VectorIndex},
			{Key: "queryVector", Value: vector},
			{Key: "path", Value: cfg.EmbeddingPath},
			{Key: "numCandidates", Value: max(cfg.NumCandidates, k)},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "content", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}

// SamplePipeline builds the $sample aggregation returning content only.
func SamplePipeline(n int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "content", Value: 1},
		}}},
	}
}
