package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dinewise/dinewise/internal/metrics"
)

// ReviewSearcher is the vector-search surface of the store.
type ReviewSearcher interface {
	SearchReviews(ctx context.Context, embedding []float32, k int) ([]string, error)
}

// QueryEmbedder turns query text into an embedding vector.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ReviewRetriever answers agent database-tool calls: embed the query, then
// run a nearest-neighbour search over review passages.
type ReviewRetriever struct {
	searcher ReviewSearcher
	embedder QueryEmbedder
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewReviewRetriever creates a review retriever.
func NewReviewRetriever(searcher ReviewSearcher, embedder QueryEmbedder, collector *metrics.Collector, logger *slog.Logger) *ReviewRetriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewRetriever{
		searcher: searcher,
		embedder: embedder,
		metrics:  collector,
		logger:   logger,
	}
}

// Retrieve returns the k passages nearest to the query, best match first.
func (r *ReviewRetriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	start := time.Now()
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if r.metrics != nil {
		r.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
	}

	searchStart := time.Now()
	passages, err := r.searcher.SearchReviews(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search reviews: %w", err)
	}
	if r.metrics != nil {
		r.metrics.RecordTiming(metrics.OpDBSearch, time.Since(searchStart))
	}

	r.logger.Debug("reviews retrieved", "query_len", len(query), "passages", len(passages))
	return passages, nil
}
