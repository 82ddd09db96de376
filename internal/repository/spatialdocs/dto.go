package spatialdocs

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/georag/internal/domain/retrieval"
)

// row is the raw datastore row before domain conversion. Pointer fields
// carry SQL NULL as nil; the distinction survives into the domain document.
type row struct {
	ID               string
	Title            string
	Content          string
	WKT              string
	GeoJSON          []byte
	H3Index          *int64
	Metadata         []byte
	SemanticDistance *float64
	SemanticScore    *float64
	SpatialDistanceM *float64
	SpatialScore     *float64
	HybridScore      *float64
}

// toDocument converts a scanned row into the immutable domain document.
// A missing spatial distance keeps the spatial figures absent; it never
// fails the row.
func (r row) toDocument() (retrieval.Document, error) {
	doc := retrieval.Document{
		ID:      r.ID,
		Title:   r.Title,
		Content: r.Content,
		WKT:     r.WKT,
		H3Index: r.H3Index,
		Scores: retrieval.ScoreSet{
			Semantic: r.SemanticScore,
			Spatial:  r.SpatialScore,
			Hybrid:   r.HybridScore,
		},
		SpatialDistanceM: r.SpatialDistanceM,
	}
	if len(r.GeoJSON) > 0 {
		doc.GeoJSON = json.RawMessage(r.GeoJSON)
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &doc.Metadata); err != nil {
			return retrieval.Document{}, fmt.Errorf("decode metadata for %s: %w", r.ID, err)
		}
	}
	return doc, nil
}
