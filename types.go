package georag

import (
	"encoding/json"

	"github.com/kailas-cloud/georag/internal/domain/retrieval"
)

// Document is a retrieved spatial document with its relevance figures.
// Nil score pointers mean the figure was not computed for this query shape.
type Document struct {
	ID       string
	Title    string
	Content  string
	WKT      string
	GeoJSON  json.RawMessage
	Metadata map[string]any

	SemanticScore    *float64
	SpatialScore     *float64
	HybridScore      *float64
	SpatialDistanceM *float64
}

func documentsFromInternal(docs []retrieval.Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = Document{
			ID:               d.ID,
			Title:            d.Title,
			Content:          d.Content,
			WKT:              d.WKT,
			GeoJSON:          d.GeoJSON,
			Metadata:         d.Metadata,
			SemanticScore:    d.Scores.Semantic,
			SpatialScore:     d.Scores.Spatial,
			HybridScore:      d.Scores.Hybrid,
			SpatialDistanceM: d.SpatialDistanceM,
		}
	}
	return out
}
