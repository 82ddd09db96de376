// Command georag-seed populates the spatial document store with a
// synthetic municipal corpus: generate, embed in batches, upsert.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kailas-cloud/georag/internal/config"
	"github.com/kailas-cloud/georag/internal/domain/geometry"
	logpkg "github.com/kailas-cloud/georag/internal/logger"
	"github.com/kailas-cloud/georag/internal/metrics"
	"github.com/kailas-cloud/georag/internal/repository/spatialdocs"
	"github.com/kailas-cloud/georag/internal/seed"
	openaiTransport "github.com/kailas-cloud/georag/internal/transport/openai"
)

const embedBatchSize = 64

func main() {
	var (
		count     = flag.Int("count", 1000, "number of documents to generate")
		centerLat = flag.Float64("center-lat", seed.DefaultCenterLat, "corpus center latitude")
		centerLon = flag.Float64("center-lon", seed.DefaultCenterLon, "corpus center longitude")
		city      = flag.String("city", "Lahore", "city name recorded in metadata")
		rngSeed   = flag.Uint64("seed", 0, "random seed (0 = from clock)")
	)
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	repo := spatialdocs.New(pool)
	if err := repo.Ping(ctx); err != nil {
		logger.Fatal("Database not reachable", zap.Error(err))
	}

	embedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	gen := seed.New(seed.Config{
		Count:     *count,
		CenterLat: *centerLat,
		CenterLon: *centerLon,
		City:      *city,
		Seed:      *rngSeed,
	})
	docs := gen.Generate()
	logger.Info("Generated documents", zap.Int("count", len(docs)), zap.String("city", *city))

	start := time.Now()
	inserted := 0
	for off := 0; off < len(docs); off += embedBatchSize {
		end := off + embedBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		chunk := docs[off:end]

		batch, err := toSeedDocuments(ctx, embedder, chunk)
		if err != nil {
			logger.Fatal("Embedding batch failed", zap.Int("offset", off), zap.Error(err))
		}
		if err := repo.UpsertBatch(ctx, batch); err != nil {
			logger.Fatal("Upsert batch failed", zap.Int("offset", off), zap.Error(err))
		}
		inserted += len(batch)
		logger.Info("Batch ingested", zap.Int("inserted", inserted), zap.Int("total", len(docs)))
	}

	logger.Info("Seeding complete",
		zap.Int("documents", inserted),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func toSeedDocuments(
	ctx context.Context, embedder *openaiTransport.Embedder, docs []seed.Document,
) ([]spatialdocs.SeedDocument, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Title + "\n" + d.Content
	}

	res, err := embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("batch embed: %w", err)
	}
	if len(res.Embeddings) != len(docs) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(res.Embeddings), len(docs))
	}

	out := make([]spatialdocs.SeedDocument, len(docs))
	for i, d := range docs {
		wkt, err := geometry.ToWKT(d.Geometry)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", d.ID, err)
		}
		out[i] = spatialdocs.SeedDocument{
			ID:        d.ID,
			Title:     d.Title,
			Content:   d.Content,
			WKT:       wkt,
			Metadata:  d.Metadata,
			Embedding: res.Embeddings[i],
		}
	}
	return out, nil
}
