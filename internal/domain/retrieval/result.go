package retrieval

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ScoreSet carries the relevance figures of a retrieved document.
// Nil means the figure was not computed for this query shape; zero is a
// valid present score and must not be conflated with absence.
type ScoreSet struct {
	Semantic *float64
	Spatial  *float64
	Hybrid   *float64
}

// Document is a single retrieved document, constructed once per query from
// a datastore row and immutable for the rest of the request.
type Document struct {
	ID      string
	Title   string
	Content string
	// WKT is the textual geometry surfaced in context text.
	WKT     string
	GeoJSON json.RawMessage
	// H3Index is the optional coarse spatial index cell.
	H3Index  *int64
	Metadata map[string]any

	Scores           ScoreSet
	SpatialDistanceM *float64
}

// ResultSet is an ordered document list, descending by the score the
// planner ranked on (hybrid when a spatial constraint was active, semantic
// otherwise).
type ResultSet struct {
	Documents []Document
}

// ContextText renders the result set as LLM prompt context, one enumerated
// block per document in result order. The spatial relevance figure appears
// only when it was computed.
func (rs ResultSet) ContextText() string {
	if len(rs.Documents) == 0 {
		return ""
	}
	blocks := make([]string, len(rs.Documents))
	for i, doc := range rs.Documents {
		var b strings.Builder
		fmt.Fprintf(&b, "[Document %d]\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", doc.Title)
		fmt.Fprintf(&b, "Location: %s\n", doc.WKT)
		fmt.Fprintf(&b, "Content: %s\n", doc.Content)
		fmt.Fprintf(&b, "Relevance: semantic=%.3f", deref(doc.Scores.Semantic))
		if doc.Scores.Spatial != nil {
			fmt.Fprintf(&b, ", spatial=%.3f", *doc.Scores.Spatial)
		}
		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n\n")
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
