package geometry

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/georag/internal/domain"
)

func TestDecode_Point(t *testing.T) {
	g, err := Decode([]byte(`{"type":"Point","coordinates":[74.3587,31.5204]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	p, ok := g.(*geom.Point)
	if !ok {
		t.Fatalf("expected *geom.Point, got %T", g)
	}
	if p.Coords()[0] != 74.3587 || p.Coords()[1] != 31.5204 {
		t.Errorf("unexpected coords: %v", p.Coords())
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte(`{}`)} {
		if _, err := Decode(raw); !errors.Is(err, domain.ErrInvalidGeometry) {
			t.Errorf("Decode(%q) = %v, want ErrInvalidGeometry", raw, err)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"type":"Point"`))
	if !errors.Is(err, domain.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestToWKT_Point(t *testing.T) {
	s, err := ToWKT(Point(74.3587, 31.5204))
	if err != nil {
		t.Fatalf("ToWKT failed: %v", err)
	}
	if s != "POINT (74.3587 31.5204)" {
		t.Errorf("unexpected wkt: %q", s)
	}
}

func TestToWKT_Precision(t *testing.T) {
	s, err := ToWKT(Point(74.35871234567, 31.52041234567))
	if err != nil {
		t.Fatalf("ToWKT failed: %v", err)
	}
	if strings.Contains(s, "74.358712345") {
		t.Errorf("coordinates not rounded to 6 digits: %q", s)
	}
}

func TestToWKT_NilGeometry(t *testing.T) {
	if _, err := ToWKT(nil); !errors.Is(err, domain.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestToWKT_RepairsSelfIntersectingPolygon(t *testing.T) {
	// Bowtie: the classic self-intersecting quad.
	bowtie := geom.NewPolygon(geom.XY)
	bowtie.MustSetCoords([][]geom.Coord{{
		{0, 0}, {2, 2}, {2, 0}, {0, 2}, {0, 0},
	}})

	s, err := ToWKT(bowtie)
	if err != nil {
		t.Fatalf("self-intersecting polygon must be repaired, not rejected: %v", err)
	}
	if !strings.HasPrefix(s, "POLYGON") {
		t.Errorf("expected POLYGON wkt, got %q", s)
	}

	// The repaired ring must itself be simple.
	g, err := FromWKT(s)
	if err != nil {
		t.Fatalf("FromWKT failed: %v", err)
	}
	ring := g.(*geom.Polygon).LinearRing(0).Coords()
	if ringSelfIntersects(ring) {
		t.Error("repaired ring still self-intersects")
	}
}

func TestRoundTrip_Polygon(t *testing.T) {
	poly := geom.NewPolygon(geom.XY)
	poly.MustSetCoords([][]geom.Coord{{
		{74.35, 31.52}, {74.37, 31.52}, {74.37, 31.54}, {74.35, 31.54}, {74.35, 31.52},
	}})

	s, err := ToWKT(poly)
	if err != nil {
		t.Fatalf("ToWKT failed: %v", err)
	}
	back, err := FromWKT(s)
	if err != nil {
		t.Fatalf("FromWKT failed: %v", err)
	}

	got := back.(*geom.Polygon).LinearRing(0).Coords()
	want := poly.LinearRing(0).Coords()
	if len(got) != len(want) {
		t.Fatalf("ring length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i][0]-want[i][0]) > 1e-6 || math.Abs(got[i][1]-want[i][1]) > 1e-6 {
			t.Errorf("vertex %d mismatch: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFromWKT_Invalid(t *testing.T) {
	for _, s := range []string{"", "POIN (1 2)"} {
		if _, err := FromWKT(s); !errors.Is(err, domain.ErrInvalidGeometry) {
			t.Errorf("FromWKT(%q) = %v, want ErrInvalidGeometry", s, err)
		}
	}
}

func TestCentroid_Point(t *testing.T) {
	lon, lat, err := Centroid(Point(74.36, 31.52))
	if err != nil {
		t.Fatalf("Centroid failed: %v", err)
	}
	if lon != 74.36 || lat != 31.52 {
		t.Errorf("centroid = (%v, %v), want (74.36, 31.52)", lon, lat)
	}
}

func TestCentroid_Square(t *testing.T) {
	poly := geom.NewPolygon(geom.XY)
	poly.MustSetCoords([][]geom.Coord{{
		{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0},
	}})

	lon, lat, err := Centroid(poly)
	if err != nil {
		t.Fatalf("Centroid failed: %v", err)
	}
	if math.Abs(lon-1) > 1e-9 || math.Abs(lat-1) > 1e-9 {
		t.Errorf("centroid = (%v, %v), want (1, 1)", lon, lat)
	}
}

func TestRepair_ValidPolygonUnchanged(t *testing.T) {
	poly := geom.NewPolygon(geom.XY)
	poly.MustSetCoords([][]geom.Coord{{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}})

	repaired := Repair(poly).(*geom.Polygon)
	if len(repaired.LinearRing(0).Coords()) != 5 {
		t.Errorf("valid polygon modified by Repair: %v", repaired.LinearRing(0).Coords())
	}
}

func TestRepair_UnclosedRingClosed(t *testing.T) {
	poly := geom.NewPolygon(geom.XY)
	poly.MustSetCoords([][]geom.Coord{{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}})
	// Simulate an unclosed source ring by rebuilding without the final vertex.
	open := geom.NewPolygon(geom.XY)
	open.MustSetCoords([][]geom.Coord{poly.LinearRing(0).Coords()[:4]})

	repaired := Repair(open).(*geom.Polygon)
	ring := repaired.LinearRing(0).Coords()
	if !sameCoord(ring[0], ring[len(ring)-1]) {
		t.Error("repaired ring is not closed")
	}
}

func TestToGeoJSON_RoundTrip(t *testing.T) {
	raw := []byte(`{"type":"Point","coordinates":[74.3587,31.5204]}`)
	g, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	out, err := ToGeoJSON(g)
	if err != nil {
		t.Fatalf("ToGeoJSON failed: %v", err)
	}
	back, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode of round-tripped geojson failed: %v", err)
	}
	if back.(*geom.Point).Coords()[0] != 74.3587 {
		t.Errorf("round-trip lost coordinates: %s", out)
	}
}
