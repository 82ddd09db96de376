// Package spatialdocs is the PostGIS + pgvector repository for spatial
// documents.
package spatialdocs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/retrieval"
	"github.com/kailas-cloud/georag/internal/query"
)

// querier is the consumer interface for the connection pool (ISP).
// *pgxpool.Pool satisfies it.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
}

// Repo implements usecase/retrieve.Repository over Postgres.
type Repo struct {
	pool querier
}

// New creates a spatial document repository.
func New(pool querier) *Repo {
	return &Repo{pool: pool}
}

// Search executes a planned retrieval query and materializes the ordered
// result set. An empty result is a valid outcome, not an error.
func (r *Repo) Search(ctx context.Context, plan query.Plan) (retrieval.ResultSet, error) {
	rows, err := r.pool.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return retrieval.ResultSet{}, fmt.Errorf("search query: %w: %w", domain.ErrDatastore, err)
	}
	defer rows.Close()

	var docs []retrieval.Document
	for rows.Next() {
		var rec row
		if plan.Hybrid {
			err = rows.Scan(
				&rec.ID, &rec.Title, &rec.Content, &rec.WKT, &rec.GeoJSON,
				&rec.H3Index, &rec.Metadata,
				&rec.SemanticDistance, &rec.SemanticScore,
				&rec.SpatialDistanceM, &rec.SpatialScore, &rec.HybridScore,
			)
		} else {
			err = rows.Scan(
				&rec.ID, &rec.Title, &rec.Content, &rec.WKT, &rec.GeoJSON,
				&rec.H3Index, &rec.Metadata,
				&rec.SemanticDistance, &rec.SemanticScore,
			)
		}
		if err != nil {
			return retrieval.ResultSet{}, fmt.Errorf("scan row: %w: %w", domain.ErrDatastore, err)
		}
		doc, err := rec.toDocument()
		if err != nil {
			return retrieval.ResultSet{}, fmt.Errorf("%w: %w", domain.ErrDatastore, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return retrieval.ResultSet{}, fmt.Errorf("iterate rows: %w: %w", domain.ErrDatastore, err)
	}

	return retrieval.ResultSet{Documents: docs}, nil
}

const getSQL = `SELECT
	id, title, content,
	ST_AsText(geom) AS geom_wkt,
	ST_AsGeoJSON(geom) AS geometry,
	h3_index, metadata
FROM spatial_docs
WHERE id = $1`

// Get returns a document by ID without relevance figures.
func (r *Repo) Get(ctx context.Context, id string) (retrieval.Document, error) {
	var rec row
	err := r.pool.QueryRow(ctx, getSQL, id).Scan(
		&rec.ID, &rec.Title, &rec.Content, &rec.WKT, &rec.GeoJSON,
		&rec.H3Index, &rec.Metadata,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return retrieval.Document{}, domain.ErrDocumentNotFound
		}
		return retrieval.Document{}, fmt.Errorf("get %s: %w: %w", id, domain.ErrDatastore, err)
	}
	return rec.toDocument()
}

const listSQL = `SELECT
	id, title, content,
	ST_AsText(geom) AS geom_wkt,
	ST_AsGeoJSON(geom) AS geometry,
	h3_index, metadata
FROM spatial_docs
ORDER BY id
OFFSET $1
LIMIT $2`

// List returns documents by stable ID order with offset pagination.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]retrieval.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, listSQL, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list query: %w: %w", domain.ErrDatastore, err)
	}
	defer rows.Close()

	var docs []retrieval.Document
	for rows.Next() {
		var rec row
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Content, &rec.WKT, &rec.GeoJSON,
			&rec.H3Index, &rec.Metadata,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w: %w", domain.ErrDatastore, err)
		}
		doc, err := rec.toDocument()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrDatastore, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w: %w", domain.ErrDatastore, err)
	}
	return docs, nil
}

// SeedDocument is a document prepared for ingestion: validated WKT plus a
// computed embedding.
type SeedDocument struct {
	ID        string
	Title     string
	Content   string
	WKT       string
	H3Index   *int64
	Metadata  map[string]any
	Embedding []float32
}

const upsertSQL = `INSERT INTO spatial_docs (id, title, content, geom, h3_index, metadata, embedding)
VALUES ($1, $2, $3, ST_GeomFromText($4, 4326), $5, $6, $7::vector)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	content = EXCLUDED.content,
	geom = EXCLUDED.geom,
	h3_index = EXCLUDED.h3_index,
	metadata = EXCLUDED.metadata,
	embedding = EXCLUDED.embedding`

// UpsertBatch writes documents in a single pipelined batch.
func (r *Repo) UpsertBatch(ctx context.Context, docs []SeedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range docs {
		batch.Queue(upsertSQL,
			d.ID, d.Title, d.Content, d.WKT, d.H3Index, d.Metadata,
			pgvector.NewVector(d.Embedding),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range docs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert batch: %w: %w", domain.ErrDatastore, err)
		}
	}
	return nil
}

// Ping checks datastore connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", domain.ErrDatastore, err)
	}
	return nil
}
