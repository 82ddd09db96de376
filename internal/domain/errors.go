package domain

import "errors"

var (
	// ErrInvalidGeometry signals a malformed or empty input geometry.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrEmbeddingUnavailable signals an unreachable or misconfigured embedding provider.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	// ErrGeocodeTimeout signals a geocoding request that timed out.
	ErrGeocodeTimeout = errors.New("geocoding timed out")
	// ErrGeocodeNotFound signals a location phrase the geocoder could not resolve.
	ErrGeocodeNotFound = errors.New("location not found")
	// ErrDatastore signals a retrieval query execution failure.
	ErrDatastore = errors.New("datastore query failed")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrAnswerUnavailable signals an answer-synthesis provider failure.
	ErrAnswerUnavailable = errors.New("answer synthesis unavailable")
)
