package query

import (
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/georag/internal/domain/constraint"
)

// missingDistanceM substitutes for a NULL geodesic distance inside the
// hybrid score so the proximity term decays to ~0 instead of failing the row.
const missingDistanceM = "1000000.0"

// Plan is an executable retrieval query: fixed SQL text plus positional
// arguments. The same request always produces byte-identical SQL.
type Plan struct {
	SQL    string
	Args   []any
	Hybrid bool
}

// Planner turns an embedded query and a spatial constraint into retrieval
// SQL. A spatial constraint selects the hybrid shape ranked by the blended
// score; no constraint selects the semantic-only shape ranked by vector
// distance. The two shapes are distinct statements, never a degenerate
// hybrid with zeroed terms.
type Planner struct {
	alpha       float64
	beta        float64
	defaultTopK int
}

// NewPlanner builds a planner with fixed score weights. topK requests of
// zero or less fall back to defaultTopK.
func NewPlanner(alpha, beta float64, defaultTopK int) *Planner {
	return &Planner{alpha: alpha, beta: beta, defaultTopK: defaultTopK}
}

// Plan produces the retrieval statement for one query. The embedding must
// be non-empty; constraint and topK come from the resolved request.
func (p *Planner) Plan(embedding []float32, c constraint.Constraint, topK int) (Plan, error) {
	if len(embedding) == 0 {
		return Plan{}, fmt.Errorf("plan: empty query embedding")
	}
	if topK <= 0 {
		topK = p.defaultTopK
	}
	vec := pgvector.NewVector(embedding)

	if !c.IsSpatial() {
		return Plan{SQL: semanticSQL, Args: []any{vec, topK}}, nil
	}

	// Reference point is fixed once per query: the radius center, or the
	// repaired region's centroid.
	refLon, refLat := c.Reference()
	pred := BuildPredicate(c, 6)

	args := make([]any, 0, 6+len(pred.Args))
	args = append(args, vec, refLon, refLat, p.alpha, p.beta)
	args = append(args, pred.Args...)
	args = append(args, topK)

	return Plan{
		SQL:    hybridSQL(pred.Expr, 6+len(pred.Args)),
		Args:   args,
		Hybrid: true,
	}, nil
}

const semanticSQL = `SELECT
	id,
	title,
	content,
	ST_AsText(geom) AS geom_wkt,
	ST_AsGeoJSON(geom) AS geometry,
	h3_index,
	metadata,
	(embedding <=> $1::vector) AS semantic_distance,
	(1 - (embedding <=> $1::vector)) AS semantic_score
FROM spatial_docs
ORDER BY semantic_distance ASC
LIMIT $2`

// hybridSQL assembles the spatially constrained shape. $1 embedding,
// $2/$3 reference point, $4/$5 weights, then the predicate's own
// parameters, then LIMIT.
func hybridSQL(predicate string, limitPlaceholder int) string {
	const distance = "ST_Distance(geom::geography, ST_SetSRID(ST_Point($2, $3), 4326)::geography)"
	proximity := "(1.0 / (1.0 + COALESCE(" + distance + ", " + missingDistanceM + ")))"

	var b strings.Builder
	b.WriteString("SELECT\n")
	b.WriteString("\tid,\n")
	b.WriteString("\ttitle,\n")
	b.WriteString("\tcontent,\n")
	b.WriteString("\tST_AsText(geom) AS geom_wkt,\n")
	b.WriteString("\tST_AsGeoJSON(geom) AS geometry,\n")
	b.WriteString("\th3_index,\n")
	b.WriteString("\tmetadata,\n")
	b.WriteString("\t(embedding <=> $1::vector) AS semantic_distance,\n")
	b.WriteString("\t(1 - (embedding <=> $1::vector)) AS semantic_score,\n")
	b.WriteString("\t" + distance + " AS spatial_distance_m,\n")
	b.WriteString("\t" + proximity + " AS spatial_score,\n")
	b.WriteString("\t($4 * (1 - (embedding <=> $1::vector)) + $5 * " + proximity + ") AS hybrid_score\n")
	b.WriteString("FROM spatial_docs\n")
	b.WriteString("WHERE " + predicate + "\n")
	b.WriteString("ORDER BY hybrid_score DESC\n")
	fmt.Fprintf(&b, "LIMIT $%d", limitPlaceholder)
	return b.String()
}
