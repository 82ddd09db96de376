package location

import (
	"context"

	"github.com/kailas-cloud/georag/internal/domain/geo"
)

// Geocoder resolves place names to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (geo.Place, error)
}
