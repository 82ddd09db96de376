package chi

import (
	"context"

	"github.com/kailas-cloud/georag/internal/domain/retrieval"
	healthuc "github.com/kailas-cloud/georag/internal/usecase/health"
)

// Retriever runs the retrieval pipeline.
type Retriever interface {
	Retrieve(ctx context.Context, req retrieval.Request) (retrieval.ResultSet, error)
	RetrieveWithContext(ctx context.Context, req retrieval.Request) (retrieval.ResultSet, string, error)
}

// Answerer synthesizes an answer from retrieved documents.
type Answerer interface {
	Generate(ctx context.Context, query string, rs retrieval.ResultSet) (string, error)
	GenerateStream(ctx context.Context, query string, rs retrieval.ResultSet, emit func(string) error) error
}

// DocumentStore reads stored documents.
type DocumentStore interface {
	Get(ctx context.Context, id string) (retrieval.Document, error)
	List(ctx context.Context, offset, limit int) ([]retrieval.Document, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
