// Package retrieve implements hybrid spatial-semantic document retrieval.
package retrieve

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/georag/internal/domain/retrieval"
	"github.com/kailas-cloud/georag/internal/logger"
	"github.com/kailas-cloud/georag/internal/metrics"
)

// Service runs the per-request retrieval pipeline. It holds no state
// between requests.
type Service struct {
	embed     Embedder
	planner   Planner
	repo      Repository
	extractor Extractor
}

// New creates a retrieval service. extractor may be nil to disable
// text-based location extraction.
func New(embed Embedder, planner Planner, repo Repository, extractor Extractor) *Service {
	return &Service{embed: embed, planner: planner, repo: repo, extractor: extractor}
}

// Retrieve embeds the query, resolves the spatial constraint, and executes
// the planned search. An explicit constraint on the request wins over
// extraction; with neither, retrieval degrades to semantic-only.
func (s *Service) Retrieve(ctx context.Context, req retrieval.Request) (retrieval.ResultSet, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	c := req.Constraint()
	if !c.IsSpatial() && s.extractor != nil {
		if extracted, ok := s.extractor.Extract(ctx, req.Query()); ok {
			c = extracted
			log.Debug("Constraint extracted from query text",
				zap.String("kind", c.Kind().String()))
		}
	}

	embResult, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("unknown", "error").Inc()
		return retrieval.ResultSet{}, fmt.Errorf("vectorize query: %w", err)
	}

	plan, err := s.planner.Plan(embResult.Embedding, c, req.TopK())
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("unknown", "error").Inc()
		return retrieval.ResultSet{}, fmt.Errorf("plan query: %w", err)
	}

	mode := "semantic"
	if plan.Hybrid {
		mode = "hybrid"
	}

	rs, err := s.repo.Search(ctx, plan)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues(mode, "error").Inc()
		return retrieval.ResultSet{}, fmt.Errorf("execute search: %w", err)
	}

	metrics.RetrievalRequestsTotal.WithLabelValues(mode, "success").Inc()
	metrics.RetrievalDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.RetrievalDocuments.WithLabelValues(mode).Observe(float64(len(rs.Documents)))

	log.Debug("Retrieval completed",
		zap.String("mode", mode),
		zap.Int("documents", len(rs.Documents)),
		zap.Duration("elapsed", time.Since(start)))

	return rs, nil
}

// RetrieveWithContext retrieves and renders the LLM context text in one
// call. An empty result set yields an empty context.
func (s *Service) RetrieveWithContext(ctx context.Context, req retrieval.Request) (retrieval.ResultSet, string, error) {
	rs, err := s.Retrieve(ctx, req)
	if err != nil {
		return retrieval.ResultSet{}, "", err
	}
	return rs, rs.ContextText(), nil
}
