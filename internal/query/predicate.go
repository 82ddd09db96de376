// Package query builds the parameterized retrieval SQL executed against
// PostGIS + pgvector. Everything caller- or data-derived is bound as a
// positional parameter; query text is assembled only from fixed fragments.
package query

import (
	"fmt"

	"github.com/kailas-cloud/georag/internal/domain/constraint"
)

// SRID for WGS84, the coordinate reference system of all stored geometry.
const srid = 4326

// Predicate is a boolean spatial filter expression with its bound
// parameters. Placeholders are numbered starting at the index given to
// BuildPredicate so the expression can be spliced into a larger query.
type Predicate struct {
	Expr string
	Args []any
}

// BuildPredicate produces the WHERE filter for a constraint. Modes are
// mutually exclusive: Region intersects, Radius geodesic-distance-within,
// None is the tautology (all candidates pass).
func BuildPredicate(c constraint.Constraint, firstPlaceholder int) Predicate {
	switch c.Kind() {
	case constraint.Region:
		return Predicate{
			Expr: fmt.Sprintf("ST_Intersects(geom, ST_GeomFromText($%d, $%d))",
				firstPlaceholder, firstPlaceholder+1),
			Args: []any{c.RegionWKT(), srid},
		}
	case constraint.Radius:
		lon, lat := c.Reference()
		return Predicate{
			Expr: fmt.Sprintf(
				"ST_DWithin(geom::geography, ST_SetSRID(ST_Point($%d, $%d), $%d)::geography, $%d)",
				firstPlaceholder, firstPlaceholder+1, firstPlaceholder+2, firstPlaceholder+3),
			Args: []any{lon, lat, srid, c.RadiusM()},
		}
	default:
		return Predicate{Expr: "TRUE"}
	}
}
