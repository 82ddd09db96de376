// Package nominatim is a minimal client for the Nominatim geocoding API.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/geo"
	"github.com/kailas-cloud/georag/internal/metrics"
)

// Geocoder resolves free-text place names via the Nominatim search endpoint.
type Geocoder struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    *http.Client
	logger    *zap.Logger
}

// Config holds the geocoder settings. Nominatim's usage policy requires a
// descriptive User-Agent.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// New creates a Nominatim geocoder.
func New(cfg *Config) *Geocoder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Geocoder{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		client:    &http.Client{Timeout: timeout},
		logger:    cfg.Logger,
	}
}

// Geocode resolves a place name to coordinates. A place that resolves to
// nothing returns ErrGeocodeNotFound; a slow upstream returns
// ErrGeocodeTimeout. Both are expected outcomes for the caller to absorb.
func (g *Geocoder) Geocode(ctx context.Context, place string) (geo.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), http.NoBody)
	if err != nil {
		return geo.Place{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			metrics.GeocodeRequestsTotal.WithLabelValues("timeout").Inc()
			return geo.Place{}, fmt.Errorf("geocode %q: %w", place, domain.ErrGeocodeTimeout)
		}
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return geo.Place{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return geo.Place{}, fmt.Errorf("geocode %q: unexpected status %d", place, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return geo.Place{}, fmt.Errorf("geocode %q: read body: %w", place, err)
	}

	// Nominatim returns coordinates as strings.
	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return geo.Place{}, fmt.Errorf("geocode %q: decode response: %w", place, err)
	}
	if len(results) == 0 {
		metrics.GeocodeRequestsTotal.WithLabelValues("not_found").Inc()
		return geo.Place{}, fmt.Errorf("geocode %q: %w", place, domain.ErrGeocodeNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return geo.Place{}, fmt.Errorf("geocode %q: parse lat: %w", place, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return geo.Place{}, fmt.Errorf("geocode %q: parse lon: %w", place, err)
	}

	metrics.GeocodeRequestsTotal.WithLabelValues("success").Inc()
	return geo.Place{Lon: lon, Lat: lat, Name: results[0].DisplayName}, nil
}
