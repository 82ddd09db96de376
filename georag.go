// Package georag is the embedded client for hybrid spatial-semantic
// retrieval over a PostGIS + pgvector store. It wires the same engine the
// HTTP server runs, without the transport layer.
package georag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/constraint"
	"github.com/kailas-cloud/georag/internal/domain/geometry"
	"github.com/kailas-cloud/georag/internal/domain/retrieval"
	"github.com/kailas-cloud/georag/internal/query"
	"github.com/kailas-cloud/georag/internal/repository/spatialdocs"
	openaiTransport "github.com/kailas-cloud/georag/internal/transport/openai"
	answeruc "github.com/kailas-cloud/georag/internal/usecase/answer"
	retrieveuc "github.com/kailas-cloud/georag/internal/usecase/retrieve"
)

// Client is the georag SDK entry point.
type Client struct {
	pool        *pgxpool.Pool
	retrieveSvc *retrieveuc.Service
	answerSvc   *answeruc.Service
}

// New creates a Client and connects to the database.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		alpha: 0.7,
		beta:  0.3,
		topK:  10,
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.databaseURL == "" {
		return nil, errors.New("georag: database URL required (use WithPostgres)")
	}

	pool, err := pgxpool.New(ctx, cfg.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("georag: create pool: %w", err)
	}

	repo := spatialdocs.New(pool)

	var embedder domain.Embedder = noopEmbedder{}
	switch {
	case cfg.embedder != nil:
		embedder = &embedderAdapter{inner: cfg.embedder}
	case cfg.embeddingAPIKey != "":
		embedder = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.embeddingAPIKey,
			BaseURL:    cfg.embeddingBaseURL,
			Model:      cfg.embeddingModel,
			Dimensions: cfg.embeddingDims,
			Provider:   "openai",
			Logger:     cfg.logger,
		})
	}

	planner := query.NewPlanner(cfg.alpha, cfg.beta, cfg.topK)
	retrieveSvc := retrieveuc.New(embedder, planner, repo, nil)

	var generator answeruc.Generator
	if cfg.llmAPIKey != "" {
		generator = openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			APIKey:   cfg.llmAPIKey,
			BaseURL:  cfg.llmBaseURL,
			Model:    cfg.llmModel,
			Provider: "openai",
			Logger:   cfg.logger,
		})
	}

	return &Client{
		pool:        pool,
		retrieveSvc: retrieveSvc,
		answerSvc:   answeruc.New(generator),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Retrieve runs a hybrid retrieval query and returns ranked documents.
func (c *Client) Retrieve(ctx context.Context, q string, opts ...QueryOption) ([]Document, error) {
	req, err := buildRequest(q, opts)
	if err != nil {
		return nil, err
	}
	rs, err := c.retrieveSvc.Retrieve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("georag: retrieve: %w", err)
	}
	return documentsFromInternal(rs.Documents), nil
}

// Answer is a synthesized answer with the documents it was grounded on.
type Answer struct {
	Text      string
	Documents []Document
}

// Ask retrieves documents and synthesizes an answer over them. Without an
// LLM configured, the answer is a deterministic summary.
func (c *Client) Ask(ctx context.Context, q string, opts ...QueryOption) (Answer, error) {
	req, err := buildRequest(q, opts)
	if err != nil {
		return Answer{}, err
	}
	rs, err := c.retrieveSvc.Retrieve(ctx, req)
	if err != nil {
		return Answer{}, fmt.Errorf("georag: retrieve: %w", err)
	}
	text, err := c.answerSvc.Generate(ctx, q, rs)
	if err != nil {
		return Answer{}, fmt.Errorf("georag: answer: %w", err)
	}
	return Answer{Text: text, Documents: documentsFromInternal(rs.Documents)}, nil
}

func buildRequest(q string, opts []QueryOption) (retrieval.Request, error) {
	qc := &queryConfig{}
	for _, o := range opts {
		o(qc)
	}

	var (
		c   constraint.Constraint
		err error
	)
	switch {
	case len(qc.regionGeoJSON) > 0:
		g, derr := geometry.Decode(qc.regionGeoJSON)
		if derr != nil {
			return retrieval.Request{}, fmt.Errorf("georag: region: %w", derr)
		}
		c, err = constraint.NewRegion(g)
	case qc.hasCenter:
		c, err = constraint.NewRadius(qc.centerLon, qc.centerLat, qc.radiusM)
	}
	if err != nil {
		return retrieval.Request{}, fmt.Errorf("georag: constraint: %w", err)
	}

	req, err := retrieval.NewRequest(q, c, qc.topK)
	if err != nil {
		return retrieval.Request{}, fmt.Errorf("georag: request: %w", err)
	}
	return req, nil
}

// embedderAdapter wraps a public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"georag: embedder not configured (use WithOpenAIEmbedding or WithEmbedder)",
	)
}
