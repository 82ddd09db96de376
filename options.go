package georag

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Embedder vectorizes text. Implement it to plug a custom embedding
// provider into the client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	databaseURL string

	embedder         Embedder
	embeddingAPIKey  string
	embeddingBaseURL string
	embeddingModel   string
	embeddingDims    int

	llmAPIKey  string
	llmBaseURL string
	llmModel   string

	alpha float64
	beta  float64
	topK  int

	logger *zap.Logger
}

// WithPostgres sets the PostGIS connection URL.
func WithPostgres(url string) Option {
	return func(c *clientConfig) {
		c.databaseURL = url
	}
}

// WithOpenAIEmbedding configures an OpenAI-compatible embedding provider.
func WithOpenAIEmbedding(apiKey, model string, dimensions int) Option {
	return func(c *clientConfig) {
		c.embeddingAPIKey = apiKey
		c.embeddingModel = model
		c.embeddingDims = dimensions
	}
}

// WithEmbeddingBaseURL points the embedding provider at a compatible
// endpoint (Azure, local inference).
func WithEmbeddingBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.embeddingBaseURL = baseURL
	}
}

// WithEmbedder plugs a custom embedding provider. Takes precedence over
// WithOpenAIEmbedding.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithLLM configures an OpenAI-compatible chat model for answer synthesis.
// Without it, Ask returns a deterministic summary.
func WithLLM(apiKey, model string) Option {
	return func(c *clientConfig) {
		c.llmAPIKey = apiKey
		c.llmModel = model
	}
}

// WithLLMBaseURL points the chat provider at a compatible endpoint.
func WithLLMBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.llmBaseURL = baseURL
	}
}

// WithHybridWeights sets the semantic (alpha) and spatial (beta) score
// weights.
func WithHybridWeights(alpha, beta float64) Option {
	return func(c *clientConfig) {
		c.alpha = alpha
		c.beta = beta
	}
}

// WithDefaultTopK sets the result count used when a query gives none.
func WithDefaultTopK(k int) Option {
	return func(c *clientConfig) {
		c.topK = k
	}
}

// WithLogger sets the logger for transport components.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// QueryOption narrows a single retrieval call.
type QueryOption func(*queryConfig)

type queryConfig struct {
	regionGeoJSON json.RawMessage
	hasCenter     bool
	centerLon     float64
	centerLat     float64
	radiusM       float64
	topK          int
}

// Near restricts results to a geodesic radius around a WGS84 point.
func Near(lon, lat, radiusM float64) QueryOption {
	return func(q *queryConfig) {
		q.hasCenter = true
		q.centerLon = lon
		q.centerLat = lat
		q.radiusM = radiusM
	}
}

// Within restricts results to documents intersecting a GeoJSON geometry.
func Within(regionGeoJSON []byte) QueryOption {
	return func(q *queryConfig) {
		q.regionGeoJSON = regionGeoJSON
	}
}

// TopK caps the number of results for this call.
func TopK(k int) QueryOption {
	return func(q *queryConfig) {
		q.topK = k
	}
}
