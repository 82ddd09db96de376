// Package geometry converts between GeoJSON, go-geom geometries, and the
// WKT literals consumed by PostGIS spatial predicates.
package geometry

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/kailas-cloud/georag/internal/domain"
)

// wktPrecision is the coordinate rounding applied to encoded WKT.
// Six decimal digits is ~11cm at the equator.
const wktPrecision = 6

// Decode parses a GeoJSON geometry object.
// Returns domain.ErrInvalidGeometry for empty or malformed input.
func Decode(raw []byte) (geom.T, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty geometry: %w", domain.ErrInvalidGeometry)
	}
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("parse geojson: %v: %w", err, domain.ErrInvalidGeometry)
	}
	if g == nil || len(g.FlatCoords()) == 0 {
		return nil, fmt.Errorf("empty geometry: %w", domain.ErrInvalidGeometry)
	}
	return g, nil
}

// ToWKT encodes a geometry as a WKT literal at fixed precision.
// Invalid polygons are repaired first, never rejected: upstream geometry
// sources (user-drawn regions) are often imprecise.
func ToWKT(g geom.T) (string, error) {
	if g == nil || len(g.FlatCoords()) == 0 {
		return "", fmt.Errorf("empty geometry: %w", domain.ErrInvalidGeometry)
	}
	repaired := Repair(g)
	s, err := wkt.Marshal(repaired, wkt.EncodeOptionWithMaxDecimalDigits(wktPrecision))
	if err != nil {
		return "", fmt.Errorf("encode wkt: %v: %w", err, domain.ErrInvalidGeometry)
	}
	return s, nil
}

// FromWKT decodes a WKT literal, used when surfacing stored geometry back
// to a caller.
func FromWKT(s string) (geom.T, error) {
	if s == "" {
		return nil, fmt.Errorf("empty wkt: %w", domain.ErrInvalidGeometry)
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("parse wkt: %v: %w", err, domain.ErrInvalidGeometry)
	}
	return g, nil
}

// ToGeoJSON encodes a geometry as a GeoJSON geometry object.
func ToGeoJSON(g geom.T) ([]byte, error) {
	data, err := geojson.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %v: %w", err, domain.ErrInvalidGeometry)
	}
	return data, nil
}

// Point builds a WGS84 point from longitude/latitude.
func Point(lon, lat float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{lon, lat})
}

// Centroid returns the centroid of a point or polygon geometry.
// Polygon centroids are area-weighted over the outer ring.
func Centroid(g geom.T) (lon, lat float64, err error) {
	switch t := g.(type) {
	case *geom.Point:
		c := t.Coords()
		return c[0], c[1], nil
	case *geom.Polygon:
		ring := t.LinearRing(0).Coords()
		return ringCentroid(ring)
	case *geom.MultiPolygon:
		if t.NumPolygons() == 0 {
			return 0, 0, fmt.Errorf("empty multipolygon: %w", domain.ErrInvalidGeometry)
		}
		// Largest polygon dominates; good enough for a query reference point.
		return Centroid(t.Polygon(0))
	default:
		return coordsMean(g)
	}
}

// ringCentroid computes the area-weighted centroid of a closed ring via the
// shoelace formula, falling back to the vertex mean for degenerate rings.
func ringCentroid(ring []geom.Coord) (lon, lat float64, err error) {
	if len(ring) < 3 {
		return 0, 0, fmt.Errorf("degenerate ring: %w", domain.ErrInvalidGeometry)
	}
	var area, cx, cy float64
	for i := 0; i < len(ring)-1; i++ {
		cross := ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
		area += cross
		cx += (ring[i][0] + ring[i+1][0]) * cross
		cy += (ring[i][1] + ring[i+1][1]) * cross
	}
	if area == 0 {
		return meanOf(ring)
	}
	area /= 2
	return cx / (6 * area), cy / (6 * area), nil
}

func coordsMean(g geom.T) (lon, lat float64, err error) {
	flat := g.FlatCoords()
	stride := g.Stride()
	if len(flat) == 0 || stride < 2 {
		return 0, 0, fmt.Errorf("empty geometry: %w", domain.ErrInvalidGeometry)
	}
	n := len(flat) / stride
	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += flat[i*stride]
		sy += flat[i*stride+1]
	}
	return sx / float64(n), sy / float64(n), nil
}

func meanOf(coords []geom.Coord) (lon, lat float64, err error) {
	var sx, sy float64
	for _, c := range coords {
		sx += c[0]
		sy += c[1]
	}
	n := float64(len(coords))
	return sx / n, sy / n, nil
}
