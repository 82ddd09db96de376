package retrieval

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/georag/internal/domain/constraint"
)

func fp(f float64) *float64 { return &f }

func TestContextText_Empty(t *testing.T) {
	var rs ResultSet
	if got := rs.ContextText(); got != "" {
		t.Errorf("empty result set must render empty context, got %q", got)
	}
}

func TestContextText_OrderMatchesDocuments(t *testing.T) {
	rs := ResultSet{Documents: []Document{
		{ID: "a", Title: "First", WKT: "POINT (1 1)", Content: "alpha", Scores: ScoreSet{Semantic: fp(0.9)}},
		{ID: "b", Title: "Second", WKT: "POINT (2 2)", Content: "beta", Scores: ScoreSet{Semantic: fp(0.8)}},
	}}

	text := rs.ContextText()
	first := strings.Index(text, "[Document 1]\nTitle: First")
	second := strings.Index(text, "[Document 2]\nTitle: Second")
	if first == -1 || second == -1 || first > second {
		t.Errorf("context ordering does not match document ordering:\n%s", text)
	}
}

func TestContextText_SpatialShownOnlyWhenPresent(t *testing.T) {
	withSpatial := ResultSet{Documents: []Document{
		{Title: "A", Scores: ScoreSet{Semantic: fp(0.812), Spatial: fp(0.455)}},
	}}
	if !strings.Contains(withSpatial.ContextText(), "semantic=0.812, spatial=0.455") {
		t.Errorf("spatial figure missing:\n%s", withSpatial.ContextText())
	}

	withoutSpatial := ResultSet{Documents: []Document{
		{Title: "A", Scores: ScoreSet{Semantic: fp(0.812)}},
	}}
	if strings.Contains(withoutSpatial.ContextText(), "spatial=") {
		t.Errorf("spatial figure rendered for semantic-only document:\n%s", withoutSpatial.ContextText())
	}
}

func TestContextText_ZeroScoreIsRendered(t *testing.T) {
	// Zero is a valid score, distinct from absent.
	rs := ResultSet{Documents: []Document{
		{Title: "A", Scores: ScoreSet{Semantic: fp(0), Spatial: fp(0)}},
	}}
	if !strings.Contains(rs.ContextText(), "semantic=0.000, spatial=0.000") {
		t.Errorf("zero scores must render, got:\n%s", rs.ContextText())
	}
}

func TestNewRequest_Validation(t *testing.T) {
	if _, err := NewRequest("", constraint.Constraint{}, 10); err == nil {
		t.Error("expected error for empty query")
	}
	if _, err := NewRequest(strings.Repeat("x", MaxQueryLength+1), constraint.Constraint{}, 10); err == nil {
		t.Error("expected error for oversized query")
	}
	req, err := NewRequest("zoning near the river", constraint.Constraint{}, 0)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	if req.TopK() != 0 {
		t.Errorf("topK = %d, want 0 (defer to configured default)", req.TopK())
	}
}

func TestRequest_WithConstraint(t *testing.T) {
	req, err := NewRequest("cafes near the station", constraint.Constraint{}, 5)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	c, err := constraint.NewRadius(74.36, 31.52, 1000)
	if err != nil {
		t.Fatalf("NewRadius failed: %v", err)
	}

	got := req.WithConstraint(c)
	if got.Constraint().Kind() != constraint.Radius {
		t.Errorf("constraint not applied: %v", got.Constraint().Kind())
	}
	if req.Constraint().IsSpatial() {
		t.Error("WithConstraint must not mutate the receiver")
	}
	if got.Query() != req.Query() || got.TopK() != req.TopK() {
		t.Error("WithConstraint must preserve other fields")
	}
}
