package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/georag/internal/domain/retrieval"
	healthuc "github.com/kailas-cloud/georag/internal/usecase/health"
)

// ErrorCode is the machine-readable error discriminator in error responses.
type ErrorCode string

const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeInvalidGeometry      ErrorCode = "invalid_geometry"
	CodeDocumentNotFound     ErrorCode = "document_not_found"
	CodeEmbeddingProvider    ErrorCode = "embedding_provider_error"
	CodeAnswerProvider       ErrorCode = "answer_provider_error"
	CodeDatastoreUnavailable ErrorCode = "datastore_unavailable"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Query         string          `json:"query"`
	RegionGeoJSON json.RawMessage `json:"region_geojson,omitempty"`
	CenterLon     *float64        `json:"center_lon,omitempty"`
	CenterLat     *float64        `json:"center_lat,omitempty"`
	RadiusM       float64         `json:"radius_m,omitempty"`
	TopK          int             `json:"top_k,omitempty"`
	IncludeAnswer bool            `json:"include_answer,omitempty"`
}

// ScoreSetResponse carries the relevance figures; absent figures are
// omitted rather than rendered as zero.
type ScoreSetResponse struct {
	Semantic *float64 `json:"semantic,omitempty"`
	Spatial  *float64 `json:"spatial,omitempty"`
	Hybrid   *float64 `json:"hybrid,omitempty"`
}

// DocumentResponse is the wire form of a retrieved document.
type DocumentResponse struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Content          string           `json:"content"`
	WKT              string           `json:"geom_wkt"`
	Geometry         json.RawMessage  `json:"geometry,omitempty"`
	H3Index          *int64           `json:"h3_index,omitempty"`
	Metadata         map[string]any   `json:"metadata,omitempty"`
	Scores           ScoreSetResponse `json:"scores"`
	SpatialDistanceM *float64         `json:"spatial_distance_m,omitempty"`
}

// QueryResponse is the POST /query reply.
type QueryResponse struct {
	Query      string             `json:"query"`
	Answer     *string            `json:"answer,omitempty"`
	Documents  []DocumentResponse `json:"documents"`
	TotalCount int                `json:"total_count"`
}

// DocumentListResponse is the GET /documents reply.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Count     int                `json:"count"`
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status         string            `json:"status"`
	Checks         map[string]string `json:"checks"`
	EmbeddingModel string            `json:"embedding_model"`
	HybridAlpha    float64           `json:"hybrid_alpha"`
	HybridBeta     float64           `json:"hybrid_beta"`
	LLMAvailable   bool              `json:"llm_available"`
}

func documentToResponse(d retrieval.Document) DocumentResponse {
	return DocumentResponse{
		ID:       d.ID,
		Title:    d.Title,
		Content:  d.Content,
		WKT:      d.WKT,
		Geometry: d.GeoJSON,
		H3Index:  d.H3Index,
		Metadata: d.Metadata,
		Scores: ScoreSetResponse{
			Semantic: d.Scores.Semantic,
			Spatial:  d.Scores.Spatial,
			Hybrid:   d.Scores.Hybrid,
		},
		SpatialDistanceM: d.SpatialDistanceM,
	}
}

func documentsToResponse(docs []retrieval.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = documentToResponse(d)
	}
	return out
}

func healthToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{
		Status:         string(r.Status),
		Checks:         checks,
		EmbeddingModel: r.Info.EmbeddingModel,
		HybridAlpha:    r.Info.HybridAlpha,
		HybridBeta:     r.Info.HybridBeta,
		LLMAvailable:   r.Info.LLMAvailable,
	}
}
