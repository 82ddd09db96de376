package location

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/constraint"
	"github.com/kailas-cloud/georag/internal/domain/geo"
)

type mockGeocoder struct {
	calls  []string
	places map[string]geo.Place
	errs   map[string]error
}

func (m *mockGeocoder) Geocode(_ context.Context, place string) (geo.Place, error) {
	m.calls = append(m.calls, place)
	if err, ok := m.errs[place]; ok {
		return geo.Place{}, err
	}
	if p, ok := m.places[place]; ok {
		return p, nil
	}
	return geo.Place{}, domain.ErrGeocodeNotFound
}

func newTestExtractor(g *mockGeocoder) *Extractor {
	return New(g, 1000, zap.NewNop())
}

func TestExtract_Near(t *testing.T) {
	g := &mockGeocoder{places: map[string]geo.Place{
		"Eiffel Tower": {Lon: 2.2945, Lat: 48.8583, Name: "Tour Eiffel, Paris"},
	}}
	e := newTestExtractor(g)

	c, ok := e.Extract(context.Background(), "restaurants near Eiffel Tower")
	if !ok {
		t.Fatal("expected a location")
	}
	if c.Kind() != constraint.Radius {
		t.Errorf("kind = %v, want radius", c.Kind())
	}
	lon, lat := c.Reference()
	if lon != 2.2945 || lat != 48.8583 {
		t.Errorf("reference = (%v, %v)", lon, lat)
	}
	if c.RadiusM() != 1000 {
		t.Errorf("radius = %v, want default 1000", c.RadiusM())
	}
	if len(g.calls) != 1 || g.calls[0] != "Eiffel Tower" {
		t.Errorf("geocoder calls = %v", g.calls)
	}
}

func TestExtract_PatternVariants(t *testing.T) {
	tests := []struct {
		query string
		place string
	}{
		{"coffee shops around Trafalgar Square", "Trafalgar Square"},
		{"museums in Lahore, please", "Lahore"},
		{"events at Alexanderplatz?", "Alexanderplatz"},
		{"parks close to Central Park.", "Central Park"},
		{"permits within 500 m of City Hall", "City Hall"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			g := &mockGeocoder{places: map[string]geo.Place{
				tt.place: {Lon: 10, Lat: 20},
			}}
			e := newTestExtractor(g)

			if _, ok := e.Extract(context.Background(), tt.query); !ok {
				t.Fatalf("expected location from %q, geocoder saw %v", tt.query, g.calls)
			}
			if g.calls[len(g.calls)-1] != tt.place {
				t.Errorf("geocoded %q, want %q", g.calls[len(g.calls)-1], tt.place)
			}
		})
	}
}

func TestExtract_TimeoutMovesToNextPattern(t *testing.T) {
	// "near X" capture times out; "in Y" succeeds.
	g := &mockGeocoder{
		places: map[string]geo.Place{"Berlin": {Lon: 13.405, Lat: 52.52}},
		errs:   map[string]error{"the station": domain.ErrGeocodeTimeout},
	}
	e := newTestExtractor(g)

	c, ok := e.Extract(context.Background(), "cafes near the station in Berlin")
	if !ok {
		t.Fatalf("expected fallback to next pattern, geocoder saw %v", g.calls)
	}
	lon, _ := c.Reference()
	if lon != 13.405 {
		t.Errorf("reference lon = %v, want Berlin", lon)
	}
}

func TestExtract_NoPatternMatch(t *testing.T) {
	g := &mockGeocoder{}
	e := newTestExtractor(g)

	if _, ok := e.Extract(context.Background(), "general zoning regulations"); ok {
		t.Error("expected no location")
	}
	if len(g.calls) != 0 {
		t.Errorf("geocoder must not be called, saw %v", g.calls)
	}
}

func TestExtract_AllCandidatesUnresolvable(t *testing.T) {
	// Everything geocodes to nothing; extraction yields no location.
	g := &mockGeocoder{}
	e := newTestExtractor(g)

	if _, ok := e.Extract(context.Background(), "shops near Atlantis"); ok {
		t.Error("expected no location when geocoding finds nothing")
	}
	if len(g.calls) == 0 {
		t.Error("expected geocoding attempts")
	}
}
