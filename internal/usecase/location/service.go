// Package location extracts a spatial constraint from free-text queries.
package location

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/constraint"
)

// Ordered heuristics for place mentions. A later pattern is tried only
// when the earlier ones fail to produce a geocodable candidate.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)near\s+(.+?)(?:\?|$|,|\.|in\s)`),
	regexp.MustCompile(`(?i)around\s+(.+?)(?:\?|$|,|\.|in\s)`),
	regexp.MustCompile(`(?i)in\s+(.+?)(?:\?|$|,|\.)`),
	regexp.MustCompile(`(?i)at\s+(.+?)(?:\?|$|,|\.)`),
	regexp.MustCompile(`(?i)close to\s+(.+?)(?:\?|$|,|\.)`),
	regexp.MustCompile(`(?i)within\s+\d+\s*(?:m|km|meters|kilometers)\s+of\s+(.+?)(?:\?|$|,|\.)`),
}

// Extractor finds a place mention in a query and turns it into a radius
// constraint around the geocoded point.
type Extractor struct {
	geocoder       Geocoder
	defaultRadiusM float64
	logger         *zap.Logger
}

// New creates a location extractor.
func New(geocoder Geocoder, defaultRadiusM float64, logger *zap.Logger) *Extractor {
	return &Extractor{
		geocoder:       geocoder,
		defaultRadiusM: defaultRadiusM,
		logger:         logger,
	}
}

// Extract tries each pattern in order and geocodes the first captured
// candidate. Geocoder timeouts and unknown places move on to the next
// pattern; exhausting all patterns means no location, which is a normal
// outcome, not an error.
func (e *Extractor) Extract(ctx context.Context, query string) (constraint.Constraint, bool) {
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		place := strings.TrimSpace(m[1])
		if place == "" {
			continue
		}

		loc, err := e.geocoder.Geocode(ctx, place)
		if err != nil {
			if errors.Is(err, domain.ErrGeocodeTimeout) || errors.Is(err, domain.ErrGeocodeNotFound) {
				continue
			}
			e.logger.Warn("Geocoding failed", zap.String("place", place), zap.Error(err))
			continue
		}

		c, err := constraint.NewRadius(loc.Lon, loc.Lat, e.defaultRadiusM)
		if err != nil {
			e.logger.Warn("Geocoded point rejected",
				zap.String("place", place),
				zap.Float64("lon", loc.Lon),
				zap.Float64("lat", loc.Lat),
				zap.Error(err))
			continue
		}

		e.logger.Debug("Location extracted",
			zap.String("place", place),
			zap.String("resolved", loc.Name))
		return c, true
	}

	return constraint.Constraint{}, false
}
