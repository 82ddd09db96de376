// Package chi provides the HTTP API surface: query, streaming, document
// browsing, health, and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/constraint"
	"github.com/kailas-cloud/georag/internal/domain/geometry"
	"github.com/kailas-cloud/georag/internal/domain/retrieval"
	healthuc "github.com/kailas-cloud/georag/internal/usecase/health"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use cases into chi handlers.
type Server struct {
	retriever      Retriever
	answerer       Answerer
	documents      DocumentStore
	health         HealthChecker
	defaultRadiusM float64
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	retriever Retriever,
	answerer Answerer,
	documents DocumentStore,
	health HealthChecker,
	defaultRadiusM float64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retriever:      retriever,
		answerer:       answerer,
		documents:      documents,
		health:         health,
		defaultRadiusM: defaultRadiusM,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidGeometry, http.StatusBadRequest, CodeInvalidGeometry),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, CodeEmbeddingProvider),
		sentinelHandler(domain.ErrAnswerUnavailable, http.StatusBadGateway, CodeAnswerProvider),
		sentinelHandler(domain.ErrDatastore, http.StatusServiceUnavailable, CodeDatastoreUnavailable),
	}
	return s
}

// Register mounts the API routes onto the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/query", s.Query)
	r.Get("/stream", s.Stream)
	r.Get("/documents", s.ListDocuments)
	r.Get("/documents/{id}", s.GetDocument)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query is required")
		return
	}

	c, err := s.resolveConstraint(req.RegionGeoJSON, req.CenterLon, req.CenterLat, req.RadiusM)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	domReq, err := retrieval.NewRequest(req.Query, c, req.TopK)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	rs, _, err := s.retriever.RetrieveWithContext(r.Context(), domReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := QueryResponse{
		Query:      req.Query,
		Documents:  documentsToResponse(rs.Documents),
		TotalCount: len(rs.Documents),
	}

	if req.IncludeAnswer {
		answer, err := s.answerer.Generate(r.Context(), req.Query, rs)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		resp.Answer = &answer
	}

	writeJSON(w, http.StatusOK, resp)
}

// Stream handles GET /stream: retrieval metadata followed by the answer as
// server-sent events.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "q parameter is required")
		return
	}

	centerLon, err := parseFloatParam(r, "center_lon")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	centerLat, err := parseFloatParam(r, "center_lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	radiusM := 0.0
	if v := r.URL.Query().Get("radius_m"); v != "" {
		radiusM, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "radius_m must be a number")
			return
		}
	}

	c, err := s.resolveConstraint(nil, centerLon, centerLat, radiusM)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	domReq, err := retrieval.NewRequest(q, c, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, CodeInternalError, "streaming unsupported")
		return
	}

	// Retrieval runs before the stream is committed so failures still get a
	// proper status code.
	rs, err := s.retriever.Retrieve(r.Context(), domReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sse := sseWriter{w: w, flusher: flusher}
	_ = sse.event("metadata", map[string]any{
		"doc_count": len(rs.Documents),
		"documents": documentsToResponse(rs.Documents),
	})

	err = s.answerer.GenerateStream(r.Context(), q, rs, func(chunk string) error {
		return sse.event("chunk", map[string]any{"chunk": chunk})
	})
	if err != nil {
		s.logger.Warn("answer stream failed", zap.Error(err))
		_ = sse.event("error", map[string]any{"message": safeDomainMessage(err)})
		return
	}

	_ = sse.event("done", map[string]any{"status": "complete"})
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		limit = n
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = n
	}

	docs, err := s.documents.List(r.Context(), offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DocumentListResponse{
		Documents: documentsToResponse(docs),
		Count:     len(docs),
	})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) resolveConstraint(
	regionGeoJSON json.RawMessage, centerLon, centerLat *float64, radiusM float64,
) (constraint.Constraint, error) {
	if len(regionGeoJSON) > 0 {
		g, err := geometry.Decode(regionGeoJSON)
		if err != nil {
			return constraint.Constraint{}, err
		}
		return constraint.Resolve(g, nil, nil, 0, s.defaultRadiusM)
	}
	return constraint.Resolve(nil, centerLon, centerLat, radiusM, s.defaultRadiusM)
}

func parseFloatParam(r *http.Request, name string) (*float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &f, nil
}

// sseWriter emits named server-sent events with JSON payloads.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s sseWriter) event(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("event: " + name + "\ndata: " + string(data) + "\n\n")); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidGeometry,
		domain.ErrDocumentNotFound,
		domain.ErrEmbeddingUnavailable,
		domain.ErrAnswerUnavailable,
		domain.ErrGeocodeTimeout,
		domain.ErrGeocodeNotFound,
		domain.ErrDatastore,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
