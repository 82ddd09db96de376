package answer

import (
	"context"

	"github.com/kailas-cloud/georag/internal/domain/retrieval"
)

// Generator produces an answer over retrieved documents, complete or
// streamed chunk by chunk.
type Generator interface {
	Generate(ctx context.Context, query string, rs retrieval.ResultSet) (string, error)
	GenerateStream(ctx context.Context, query string, rs retrieval.ResultSet, emit func(chunk string) error) error
}
