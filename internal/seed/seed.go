// Package seed generates synthetic municipal documents for populating a
// development database: zoning notices, permits, traffic studies, and
// similar records scattered around a city center.
package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/georag/internal/domain/geo"
)

// Document is a generated document before embedding and ingestion.
type Document struct {
	ID       string
	Title    string
	Content  string
	Geometry geom.T
	Metadata map[string]any
}

// Config controls the generated corpus.
type Config struct {
	Count        int
	CenterLat    float64
	CenterLon    float64
	City         string
	MaxRadiusKM  float64
	PolygonRatio float64
	Seed         uint64
}

// Lahore city center, the default corpus location.
const (
	DefaultCenterLat = 31.5204
	DefaultCenterLon = 74.3587
)

func (c *Config) applyDefaults() {
	if c.Count <= 0 {
		c.Count = 1000
	}
	if c.CenterLat == 0 && c.CenterLon == 0 {
		c.CenterLat = DefaultCenterLat
		c.CenterLon = DefaultCenterLon
	}
	if c.City == "" {
		c.City = "Lahore"
	}
	if c.MaxRadiusKM <= 0 {
		c.MaxRadiusKM = 10
	}
	if c.PolygonRatio <= 0 {
		c.PolygonRatio = 0.3
	}
}

var landmarks = []string{
	"Central Business District",
	"University Campus",
	"Industrial Park",
	"Riverside Development",
	"Historic Quarter",
	"Tech Innovation Hub",
	"Medical Center Complex",
	"Sports Stadium Area",
	"Transit Station",
	"Shopping Mall District",
	"Residential Heights",
	"Waterfront Zone",
	"Airport Vicinity",
	"Cultural Center",
	"Green Belt Area",
}

var docTypes = []string{"zoning", "permit", "traffic", "planning", "environmental", "infrastructure"}

var zoneTypes = []string{"R-1", "R-2", "R-3", "C-1", "C-2", "M-1", "M-2", "MU", "OS", "PD"}

var sources = []string{"city_planning", "public_records", "environmental_agency", "transport_authority"}

// Generator produces a deterministic corpus for a given seed.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a generator. A zero Seed derives one from the clock.
func New(cfg Config) *Generator {
	cfg.applyDefaults()
	s := cfg.Seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
	}
}

// Generate produces the configured number of documents.
func (g *Generator) Generate() []Document {
	docs := make([]Document, g.cfg.Count)
	for i := range docs {
		docType := pick(g.rng, docTypes)
		landmark := pick(g.rng, landmarks)

		var geometry geom.T
		if g.rng.Float64() < g.cfg.PolygonRatio {
			geometry = g.randomPolygon(0.5)
		} else {
			geometry = g.randomPoint(g.cfg.MaxRadiusKM)
		}

		lon, lat := firstCoord(geometry)
		daysOld := g.rng.IntN(1500)

		docs[i] = Document{
			ID:       uuid.NewString(),
			Title:    fmt.Sprintf("%s Report - %s #%d", title(docType), landmark, i+1),
			Content:  g.content(docType, landmark),
			Geometry: geometry,
			Metadata: map[string]any{
				"city":              g.cfg.City,
				"landmark":          landmark,
				"doc_type":          docType,
				"authority_score":   round3(0.3 + g.rng.Float64()*0.7),
				"recency_days":      daysOld,
				"source":            pick(g.rng, sources),
				"created_at":        time.Now().UTC().AddDate(0, 0, -daysOld).Format(time.RFC3339),
				"verified":          g.rng.Float64() > 0.2,
				"center_distance_m": math.Round(geo.Haversine(g.cfg.CenterLat, g.cfg.CenterLon, lat, lon)),
			},
		}
	}
	return docs
}

// randomPoint samples uniformly within maxRadiusKM of the center.
// sqrt on the radial draw corrects for area growing with r.
func (g *Generator) randomPoint(maxRadiusKM float64) *geom.Point {
	radiusDeg := maxRadiusKM / 111.0
	r := radiusDeg * math.Sqrt(g.rng.Float64())
	theta := g.rng.Float64() * 2 * math.Pi
	lat := g.cfg.CenterLat + r*math.Cos(theta)
	lon := g.cfg.CenterLon + r*math.Sin(theta)
	return geom.NewPointFlat(geom.XY, []float64{lon, lat})
}

// randomPolygon builds a small simple polygon: random vertices around a
// local anchor, ordered by angle so the ring never self-intersects.
func (g *Generator) randomPolygon(maxRadiusKM float64) *geom.Polygon {
	anchor := g.randomPoint(g.cfg.MaxRadiusKM).Coords()
	n := 4 + g.rng.IntN(5)

	type vertex struct {
		lon, lat, angle float64
	}
	verts := make([]vertex, n)
	sizeDeg := maxRadiusKM / 111.0
	for i := range verts {
		r := sizeDeg * math.Sqrt(g.rng.Float64())
		theta := g.rng.Float64() * 2 * math.Pi
		verts[i] = vertex{
			lon:   anchor[0] + r*math.Sin(theta),
			lat:   anchor[1] + r*math.Cos(theta),
			angle: theta,
		}
	}
	for i := 1; i < n; i++ {
		for j := i; j > 0 && verts[j].angle < verts[j-1].angle; j-- {
			verts[j], verts[j-1] = verts[j-1], verts[j]
		}
	}

	ring := make([]geom.Coord, 0, n+1)
	for _, v := range verts {
		ring = append(ring, geom.Coord{v.lon, v.lat})
	}
	ring = append(ring, ring[0])

	poly := geom.NewPolygon(geom.XY)
	poly.MustSetCoords([][]geom.Coord{ring})
	return poly
}

func (g *Generator) content(docType, landmark string) string {
	r := g.rng
	switch docType {
	case "zoning":
		switch r.IntN(3) {
		case 0:
			return fmt.Sprintf(
				"Zoning classification: %s. This area permits %s. Maximum building height: %dm. Setback requirements: %dm from property line.",
				pick(r, zoneTypes),
				pick(r, []string{"residential", "commercial", "mixed-use", "industrial", "institutional"}),
				10+r.IntN(91), 3+r.IntN(13))
		case 1:
			return fmt.Sprintf(
				"Land use designation: %s zone. Permitted density: %d units per hectare. Special conditions apply for %s.",
				pick(r, zoneTypes), 20+r.IntN(181),
				pick(r, []string{"heritage overlay", "flood zone", "airport noise contour", "environmental sensitivity"}))
		default:
			return fmt.Sprintf(
				"Zoning ordinance #%d-%d establishes %s classification for this parcel. Development must comply with %s.",
				1000+r.IntN(9000), 2020+r.IntN(5), pick(r, zoneTypes),
				pick(r, []string{"design guidelines", "environmental standards", "accessibility codes", "parking requirements"}))
		}
	case "permit":
		project := pick(r, []string{
			"residential tower", "commercial complex", "mixed-use development",
			"infrastructure upgrade", "public facility",
		})
		switch r.IntN(3) {
		case 0:
			return fmt.Sprintf(
				"Building Permit #BP-%d issued for %s. Project scope: %s. Estimated completion: %s.",
				10000+r.IntN(90000), project,
				pick(r, []string{"new construction", "renovation", "expansion", "demolition and rebuild"}),
				time.Now().AddDate(0, 0, 180+r.IntN(541)).Format("January 2006"))
		case 1:
			return fmt.Sprintf(
				"Development application #BP-%d approved for %s. Total floor area: %d sqm. Conditions: %s.",
				10000+r.IntN(90000), project, 500+r.IntN(49501),
				pick(r, []string{"landscaping required", "traffic study needed", "public consultation", "heritage review"}))
		default:
			return fmt.Sprintf(
				"Construction permit granted for %s at this location. Contractor: Builder %s Corp. Expected duration: %d months.",
				project, pick(r, []string{"Alpha", "Beta", "Gamma", "Delta"}), 6+r.IntN(31))
		}
	case "traffic":
		switch r.IntN(3) {
		case 0:
			return fmt.Sprintf(
				"Traffic analysis report: Average daily traffic volume of %d vehicles. Peak hour congestion index: %d/100. Recommended improvements: %s.",
				5000+r.IntN(45001), 20+r.IntN(76),
				pick(r, []string{"signal optimization", "lane widening", "roundabout installation", "pedestrian crossing"}))
		case 1:
			return fmt.Sprintf(
				"Transportation study findings: %s with capacity for %d vehicles/hour. Current utilization: %d%%. Signal timing optimization recommended.",
				pick(r, []string{"arterial", "collector", "local", "highway"}), 1000+r.IntN(4001), 40+r.IntN(56))
		default:
			return fmt.Sprintf(
				"Traffic impact assessment: New development expected to generate %d additional trips daily. Mitigation measures: %s.",
				100+r.IntN(1901),
				pick(r, []string{"turn lanes", "traffic signals", "access management", "transit improvements"}))
		}
	case "environmental":
		switch r.IntN(3) {
		case 0:
			return fmt.Sprintf(
				"Environmental assessment: Site contains %s. Protection measures required: %s. Buffer zone: %dm.",
				pick(r, []string{"wetland area", "mature tree stand", "wildlife corridor", "riparian zone"}),
				pick(r, []string{"buffer zone", "stormwater management", "erosion control", "habitat restoration"}),
				15+r.IntN(86))
		case 1:
			return fmt.Sprintf(
				"Ecological survey results: %d species identified. Habitat classification: %s. Conservation priority: %s.",
				10+r.IntN(141),
				pick(r, []string{"Category A", "Category B", "Category C"}),
				pick(r, []string{"High", "Medium", "Low"}))
		default:
			return fmt.Sprintf(
				"Sustainability report: Green space coverage: %d%%. Tree canopy target: %d%%. Biodiversity index: %.2f.",
				15+r.IntN(31), 25+r.IntN(26), 0.3+r.Float64()*0.6)
		}
	case "infrastructure":
		switch r.IntN(3) {
		case 0:
			return fmt.Sprintf(
				"Utility infrastructure report: %s capacity assessment. Current load: %d%%. Upgrade planned for %d.",
				pick(r, []string{"water", "sewer", "stormwater", "electrical", "gas"}),
				50+r.IntN(46), 2025+r.IntN(6))
		case 1:
			return fmt.Sprintf(
				"Public works project: Project %s to improve %s. Budget: $%d,%03d,%03d. Timeline: %d years.",
				pick(r, []string{"Phoenix", "Horizon", "Gateway", "Cornerstone"}),
				pick(r, []string{"drainage", "pedestrian safety", "accessibility", "capacity"}),
				1+r.IntN(50), 100+r.IntN(900), 100+r.IntN(900), 1+r.IntN(5))
		default:
			return fmt.Sprintf(
				"Infrastructure inventory: %s serving %d properties. Age: %d years. Condition rating: %d/10.",
				pick(r, []string{"water main", "sewer line", "road segment", "bridge"}),
				500+r.IntN(4501), 10+r.IntN(71), 3+r.IntN(8))
		}
	default: // planning
		switch r.IntN(3) {
		case 0:
			return fmt.Sprintf(
				"Urban development plan for %s: Priority areas include %s. Community feedback period ends %s.",
				landmark,
				pick(r, []string{"affordable housing", "green infrastructure", "transit-oriented development", "economic revitalization"}),
				time.Now().AddDate(0, 0, 30+r.IntN(61)).Format("January 2, 2006"))
		case 1:
			return fmt.Sprintf(
				"Master plan update: %s designated for %s. Infrastructure investments planned: %s.",
				landmark,
				pick(r, []string{"growth center", "conservation area", "innovation district", "heritage precinct"}),
				pick(r, []string{"transit extension", "park improvements", "utility upgrades", "road reconstruction"}))
		default:
			return fmt.Sprintf(
				"Strategic planning document: Vision for %s includes %s. Implementation timeline: %d years.",
				landmark,
				pick(r, []string{"sustainable community", "walkable neighborhood", "economic hub", "cultural destination"}),
				5+r.IntN(16))
		}
	}
}

func pick(r *rand.Rand, options []string) string {
	return options[r.IntN(len(options))]
}

func title(docType string) string {
	if docType == "" {
		return ""
	}
	return string(docType[0]-'a'+'A') + docType[1:]
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func firstCoord(g geom.T) (lon, lat float64) {
	flat := g.FlatCoords()
	if len(flat) < 2 {
		return 0, 0
	}
	return flat[0], flat[1]
}
