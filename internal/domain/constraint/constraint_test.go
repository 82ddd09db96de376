package constraint

import (
	"errors"
	"math"
	"testing"

	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/geometry"
)

func squareAround(lon, lat, half float64) *geom.Polygon {
	p := geom.NewPolygon(geom.XY)
	p.MustSetCoords([][]geom.Coord{{
		{lon - half, lat - half}, {lon + half, lat - half},
		{lon + half, lat + half}, {lon - half, lat + half},
		{lon - half, lat - half},
	}})
	return p
}

func TestNewRegion(t *testing.T) {
	c, err := NewRegion(squareAround(74.36, 31.52, 0.01))
	if err != nil {
		t.Fatalf("NewRegion failed: %v", err)
	}
	if c.Kind() != Region {
		t.Errorf("kind = %v, want region", c.Kind())
	}
	if c.RegionWKT() == "" {
		t.Error("expected encoded region wkt")
	}
	lon, lat := c.Reference()
	if math.Abs(lon-74.36) > 1e-6 || math.Abs(lat-31.52) > 1e-6 {
		t.Errorf("reference = (%v, %v), want square centroid", lon, lat)
	}
}

func TestNewRegion_NilGeometry(t *testing.T) {
	if _, err := NewRegion(nil); !errors.Is(err, domain.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestNewRadius(t *testing.T) {
	c, err := NewRadius(74.36, 31.52, 2000)
	if err != nil {
		t.Fatalf("NewRadius failed: %v", err)
	}
	if c.Kind() != Radius {
		t.Errorf("kind = %v, want radius", c.Kind())
	}
	if c.RadiusM() != 2000 {
		t.Errorf("radius = %v, want 2000", c.RadiusM())
	}
	lon, lat := c.Reference()
	if lon != 74.36 || lat != 31.52 {
		t.Errorf("reference = (%v, %v), want center", lon, lat)
	}
}

func TestNewRadius_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		radius   float64
	}{
		{"zero radius", 74.36, 31.52, 0},
		{"negative radius", 74.36, 31.52, -5},
		{"latitude out of range", 74.36, 95, 1000},
		{"longitude out of range", 200, 31.52, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRadius(tt.lon, tt.lat, tt.radius); !errors.Is(err, domain.ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestResolve_RegionWinsOverRadius(t *testing.T) {
	lon, lat := 74.36, 31.52
	c, err := Resolve(squareAround(10, 10, 0.01), &lon, &lat, 2000, 1000)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if c.Kind() != Region {
		t.Errorf("kind = %v, want region when both supplied", c.Kind())
	}
	if c.RadiusM() != 0 {
		t.Errorf("radius params must be ignored in region mode, got %v", c.RadiusM())
	}
}

func TestResolve_RadiusDefaulted(t *testing.T) {
	lon, lat := 74.36, 31.52
	c, err := Resolve(nil, &lon, &lat, 0, 1000)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if c.Kind() != Radius || c.RadiusM() != 1000 {
		t.Errorf("got %v/%v, want radius with default 1000", c.Kind(), c.RadiusM())
	}
}

func TestResolve_PartialCenterIsNone(t *testing.T) {
	lon := 74.36
	c, err := Resolve(nil, &lon, nil, 2000, 1000)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if c.IsSpatial() {
		t.Errorf("kind = %v, want none when latitude missing", c.Kind())
	}
}

func TestResolve_NothingIsNone(t *testing.T) {
	c, err := Resolve(nil, nil, nil, 0, 1000)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if c.IsSpatial() {
		t.Error("expected none constraint")
	}
}

func TestNewRegion_SelfIntersectingAccepted(t *testing.T) {
	bowtie := geom.NewPolygon(geom.XY)
	bowtie.MustSetCoords([][]geom.Coord{{
		{0, 0}, {2, 2}, {2, 0}, {0, 2}, {0, 0},
	}})

	c, err := NewRegion(bowtie)
	if err != nil {
		t.Fatalf("self-intersecting region must be repaired and accepted: %v", err)
	}
	if _, err := geometry.FromWKT(c.RegionWKT()); err != nil {
		t.Errorf("repaired region wkt does not parse: %v", err)
	}
}
