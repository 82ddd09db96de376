package geometry

import (
	"testing"

	"github.com/twpayne/go-geom"
)

func TestRepair_PointPassesThrough(t *testing.T) {
	pt := geom.NewPointFlat(geom.XY, []float64{74.35, 31.52})
	if out := Repair(pt); out != geom.T(pt) {
		t.Error("points must pass through unchanged")
	}
}

func TestRepair_DropsDuplicateVertices(t *testing.T) {
	p := geom.NewPolygon(geom.XY)
	p.MustSetCoords([][]geom.Coord{{
		{0, 0}, {0, 0}, {1, 0}, {1, 1}, {1, 1}, {0, 1}, {0, 0},
	}})

	out := Repair(p).(*geom.Polygon)
	if got := len(out.LinearRing(0).Coords()); got != 5 {
		t.Errorf("ring length after dedup: got %d, want 5", got)
	}
}

func TestRepair_BowtieBecomesConvexHull(t *testing.T) {
	// Self-intersecting "bowtie": (0,0)-(1,1)-(1,0)-(0,1).
	p := geom.NewPolygon(geom.XY)
	p.MustSetCoords([][]geom.Coord{{
		{0, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0},
	}})

	out := Repair(p).(*geom.Polygon)
	ring := out.LinearRing(0).Coords()
	if ringSelfIntersects(ring) {
		t.Fatal("repaired ring still self-intersects")
	}
	// Hull of the four corners is the unit square: 4 vertices + closure.
	if len(ring) != 5 {
		t.Errorf("hull ring length: got %d, want 5", len(ring))
	}
}
