// Package constraint models the spatial restriction attached to a retrieval
// request: none, a region polygon, or a center point with a radius.
package constraint

import (
	"fmt"

	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/geo"
	"github.com/kailas-cloud/georag/internal/domain/geometry"
)

// Kind discriminates the constraint variants.
type Kind int

const (
	// None applies no spatial restriction; retrieval ranks purely by
	// semantic distance.
	None Kind = iota
	// Region restricts candidates to those intersecting a polygon.
	Region
	// Radius restricts candidates to a geodesic distance from a center point.
	Radius
)

// Constraint is a validated spatial restriction. The zero value is None.
type Constraint struct {
	kind      Kind
	regionWKT string
	// region centroid (Region) or center point (Radius), the fixed
	// reference for per-row distance computation.
	lon, lat float64
	radiusM  float64
}

// NewRegion builds a Region constraint from a geometry, encoding (and if
// necessary repairing) it once. Fails with domain.ErrInvalidGeometry on
// empty input.
func NewRegion(g geom.T) (Constraint, error) {
	wkt, err := geometry.ToWKT(g)
	if err != nil {
		return Constraint{}, fmt.Errorf("encode region: %w", err)
	}
	lon, lat, err := geometry.Centroid(geometry.Repair(g))
	if err != nil {
		return Constraint{}, fmt.Errorf("region centroid: %w", err)
	}
	return Constraint{kind: Region, regionWKT: wkt, lon: lon, lat: lat}, nil
}

// NewRadius builds a Radius constraint from a WGS84 center and a radius in
// meters.
func NewRadius(lon, lat, radiusM float64) (Constraint, error) {
	if !geo.ValidateCoordinates(lat, lon) {
		return Constraint{}, fmt.Errorf("center (%v, %v) out of range: %w",
			lon, lat, domain.ErrInvalidGeometry)
	}
	if radiusM <= 0 {
		return Constraint{}, fmt.Errorf("radius must be positive, got %v: %w",
			radiusM, domain.ErrInvalidGeometry)
	}
	return Constraint{kind: Radius, lon: lon, lat: lat, radiusM: radiusM}, nil
}

// Resolve picks the effective constraint from optional caller inputs.
// Region wins when both are supplied; Radius requires both coordinates.
// Absent inputs yield the zero (None) constraint.
func Resolve(region geom.T, centerLon, centerLat *float64, radiusM, defaultRadiusM float64) (Constraint, error) {
	if region != nil {
		return NewRegion(region)
	}
	if centerLon != nil && centerLat != nil {
		r := radiusM
		if r <= 0 {
			r = defaultRadiusM
		}
		return NewRadius(*centerLon, *centerLat, r)
	}
	return Constraint{}, nil
}

// Kind returns the constraint variant.
func (c Constraint) Kind() Kind { return c.kind }

// IsSpatial reports whether any spatial restriction is active.
func (c Constraint) IsSpatial() bool { return c.kind != None }

// RegionWKT returns the encoded region literal (Region only).
func (c Constraint) RegionWKT() string { return c.regionWKT }

// Reference returns the fixed reference point used for every candidate
// row's distance computation: the radius center, or the region centroid.
func (c Constraint) Reference() (lon, lat float64) { return c.lon, c.lat }

// RadiusM returns the geodesic radius in meters (Radius only).
func (c Constraint) RadiusM() float64 { return c.radiusM }

func (k Kind) String() string {
	switch k {
	case Region:
		return "region"
	case Radius:
		return "radius"
	default:
		return "none"
	}
}
