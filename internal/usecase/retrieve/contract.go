package retrieve

import (
	"context"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/constraint"
	"github.com/kailas-cloud/georag/internal/domain/retrieval"
	"github.com/kailas-cloud/georag/internal/query"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Planner turns an embedding and a constraint into an executable query.
type Planner interface {
	Plan(embedding []float32, c constraint.Constraint, topK int) (query.Plan, error)
}

// Repository executes planned queries against the datastore.
type Repository interface {
	Search(ctx context.Context, plan query.Plan) (retrieval.ResultSet, error)
}

// Extractor finds a spatial constraint in free query text.
type Extractor interface {
	Extract(ctx context.Context, query string) (constraint.Constraint, bool)
}
