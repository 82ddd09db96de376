package geometry

import (
	"sort"

	"github.com/twpayne/go-geom"
)

// Repair returns a topologically valid version of g. Points pass through
// unchanged. Polygon rings are deduplicated and closed; a self-intersecting
// ring is replaced by the convex hull of its vertices (the nearest valid
// geometry we can produce deterministically without a full make-valid).
func Repair(g geom.T) geom.T {
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return g
	}
	if poly.NumLinearRings() == 0 {
		return g
	}

	ring := normalizeRing(poly.LinearRing(0).Coords())
	if len(ring) < 4 {
		return g
	}
	if !ringSelfIntersects(ring) {
		out := geom.NewPolygon(geom.XY)
		out.MustSetCoords([][]geom.Coord{ring})
		return out
	}

	hull := convexHull(ring)
	out := geom.NewPolygon(geom.XY)
	out.MustSetCoords([][]geom.Coord{hull})
	return out
}

// normalizeRing drops consecutive duplicate vertices and ensures closure.
func normalizeRing(ring []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, 0, len(ring))
	for _, c := range ring {
		if len(out) > 0 && sameCoord(out[len(out)-1], c) {
			continue
		}
		out = append(out, c)
	}
	if len(out) > 0 && !sameCoord(out[0], out[len(out)-1]) {
		out = append(out, out[0])
	}
	return out
}

func sameCoord(a, b geom.Coord) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// ringSelfIntersects tests every non-adjacent segment pair of a closed ring.
// O(n^2) is fine: user-drawn regions have tens of vertices.
func ringSelfIntersects(ring []geom.Coord) bool {
	n := len(ring) - 1 // last vertex repeats the first
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// Skip adjacent segments (they share an endpoint), including
			// the wrap-around pair (first, last).
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(p1, p2, p3, p4 geom.Coord) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(o, a, b geom.Coord) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull computes the closed convex hull ring of the given vertices
// using the monotone chain algorithm.
func convexHull(ring []geom.Coord) []geom.Coord {
	pts := make([]geom.Coord, len(ring)-1)
	copy(pts, ring[:len(ring)-1])
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	var lower, upper []geom.Coord
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	hull = append(hull, hull[0]) // close the ring
	return hull
}
